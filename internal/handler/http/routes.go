// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// APIPrefix is the path prefix of every route. Clients use
// "http://<host>/api" as their base URL.
const APIPrefix = "/api"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get(APIPrefix+"/health", h.health)
		r.Get(APIPrefix+"/version", h.getServerVersion)
		r.Post(APIPrefix+"/auth/register", h.register)
		r.Post(APIPrefix+"/auth/login", h.login)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get(APIPrefix+"/auth/user", h.currentUser)

		for _, c := range models.Collections {
			resource := APIPrefix + c.Resource()
			r.Get(resource, h.listRecords(c))
			r.Post(resource, h.createRecord(c))
			r.Put(resource+"/{id}", h.updateRecord(c))
			r.Delete(resource+"/{id}", h.deleteRecord(c))
		}

		r.Get(APIPrefix+"/sync/status", h.syncStatus)
		r.Post(APIPrefix+"/sync/all", h.syncAll)

		r.Get(APIPrefix+"/reports/expenses-by-category", h.expensesByCategory)
		r.Get(APIPrefix+"/reports/budget-adherence", h.budgetAdherence)
		r.Get(APIPrefix+"/reports/savings-trends", h.savingsTrends)
		r.Get(APIPrefix+"/reports/savings-goals-progress", h.savingsGoalsProgress)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
