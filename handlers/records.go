package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/services"
)

// HandleVillageUpsert returns a handler that inserts or replaces a village
// record by its district, block, panchayat and name.
func HandleVillageUpsert(app core.App, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var v services.Village
		if err := e.BindBody(&v); err != nil {
			return badRequest(e, err)
		}
		saved, err := services.UpsertVillage(app, v)
		if err != nil {
			return respondError(e, logger, "village_upsert", err)
		}
		return e.JSON(http.StatusOK, saved)
	}
}

// HandleTenderUpsert returns a handler that inserts or replaces a tender by
// NIT number and work serial.
func HandleTenderUpsert(app core.App, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var t services.Tender
		if err := e.BindBody(&t); err != nil {
			return badRequest(e, err)
		}
		saved, err := services.UpsertTender(app, t)
		if err != nil {
			return respondError(e, logger, "tender_upsert", err)
		}
		return e.JSON(http.StatusOK, saved)
	}
}
