package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/agrolink/quote-service/internal/models"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, kind models.ErrorKind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Println(err)
	}
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 50 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [0:50]")
		}
	} else {
		limit = 20
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	} else {
		offset = 0
	}

	return limit, offset, nil
}

// ContainsQuoteStatus - функция для проверки перехода статуса котировки
func ContainsQuoteStatus(validTransitions []models.QuoteStatus, newStatus models.QuoteStatus) bool {
	for _, validStatus := range validTransitions {
		if validStatus == newStatus {
			return true
		}
	}
	return false
}
