package controllers

import (
	"net/http"

	"dentalrcm/app/models"
	"dentalrcm/app/repositories"

	"github.com/sirupsen/logrus"
)

// LeadMagnetDownloadController handles the free-resource download log.
type LeadMagnetDownloadController struct {
	responder
	repo repositories.LeadMagnetDownloadRepository
}

func NewLeadMagnetDownloadController(repo repositories.LeadMagnetDownloadRepository, log logrus.FieldLogger) *LeadMagnetDownloadController {
	return &LeadMagnetDownloadController{responder: responder{log: log}, repo: repo}
}

func (lc *LeadMagnetDownloadController) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		lc.fail(w, r, err)
		return
	}
	in, err := models.DecodeLeadMagnetDownloadInsert(body)
	if err != nil {
		lc.fail(w, r, err)
		return
	}

	d, err := lc.repo.InsertLeadMagnetDownload(r.Context(), in)
	if err != nil {
		lc.fail(w, r, err)
		return
	}
	lc.sendJSON(w, http.StatusCreated, d)
}

func (lc *LeadMagnetDownloadController) Index(w http.ResponseWriter, r *http.Request) {
	downloads, err := lc.repo.GetLeadMagnetDownloads(r.Context())
	if err != nil {
		lc.fail(w, r, err)
		return
	}
	if downloads == nil {
		downloads = []models.LeadMagnetDownload{}
	}
	lc.sendJSON(w, http.StatusOK, downloads)
}
