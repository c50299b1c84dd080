package controllers

import (
	"net/http"

	"dentalrcm/app/models"
	"dentalrcm/app/repositories"

	"github.com/sirupsen/logrus"
)

// ContactSubmissionController handles the contact form endpoints.
type ContactSubmissionController struct {
	responder
	repo repositories.ContactSubmissionRepository
}

func NewContactSubmissionController(repo repositories.ContactSubmissionRepository, log logrus.FieldLogger) *ContactSubmissionController {
	return &ContactSubmissionController{responder: responder{log: log}, repo: repo}
}

func (cc *ContactSubmissionController) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	in, err := models.DecodeContactSubmissionInsert(body)
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	sub, err := cc.repo.InsertContactSubmission(r.Context(), in)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	cc.log.WithFields(logrus.Fields{"id": sub.ID, "service": sub.Service}).Info("contact submission received")
	cc.sendJSON(w, http.StatusCreated, sub)
}

func (cc *ContactSubmissionController) Index(w http.ResponseWriter, r *http.Request) {
	subs, err := cc.repo.GetContactSubmissions(r.Context())
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	if subs == nil {
		subs = []models.ContactSubmission{}
	}
	cc.sendJSON(w, http.StatusOK, subs)
}
