package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

// ErrNoPermission dipakai controller saat role tidak mencukupi.
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// statusForKind memetakan kind dari service ke status HTTP.
func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindOrderNotFound, services.KindShiftNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindDuplicateOrder:
		return http.StatusConflict
	case "":
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

// respondServiceError mengirim error pipeline ke client lengkap dengan kind
// dan boundary instant supaya client bisa menampilkan panduan spesifik
// (mis. jam cutoff pada CUTOFF_PASSED).
func respondServiceError(c *gin.Context, err error) {
	oe, ok := services.AsOrderError(err)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	detail := gin.H{"kind": oe.Kind}
	if oe.Boundary != nil {
		detail["boundary"] = oe.Boundary
	}
	utils.RespondErrorWithData(c, statusForKind(oe.Kind), oe, detail)
}
