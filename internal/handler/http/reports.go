// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/models"
)

func (h *Handler) report(w http.ResponseWriter, r *http.Request, fn string) (models.Report, bool) {
	id, ok := userID(w, r)
	if !ok {
		return models.Report{}, false
	}

	report, err := h.backend.Report(r.Context(), id)
	if err != nil {
		writeError(w, r, fn, err)
		return models.Report{}, false
	}
	return report, true
}

func (h *Handler) expensesByCategory(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r, "*Handler.expensesByCategory"); ok {
		utils.WriteJSON(w, report.Categories, http.StatusOK)
	}
}

func (h *Handler) budgetAdherence(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r, "*Handler.budgetAdherence"); ok {
		utils.WriteJSON(w, report.Budgets, http.StatusOK)
	}
}

func (h *Handler) savingsTrends(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r, "*Handler.savingsTrends"); ok {
		utils.WriteJSON(w, report.SavingsTrend, http.StatusOK)
	}
}

func (h *Handler) savingsGoalsProgress(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r, "*Handler.savingsGoalsProgress"); ok {
		utils.WriteJSON(w, report.GoalsProgress, http.StatusOK)
	}
}
