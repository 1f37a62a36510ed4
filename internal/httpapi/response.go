package httpapi

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	headerContentType   = "Content-Type"
	mimeApplicationJSON = "application/json"
	mimeTextCalendar    = "text/calendar; charset=utf-8"

	msgInvalidBody = "リクエストの形式が正しくありません"
	msgInvalidYear = "年の指定が正しくありません"
	msgInternal    = "内部エラーが発生しました"
	msgHolidaysOK  = "祝日一覧"
	msgDurationsOK = "選択可能な時間枠"
)

// ResponseDTO is the envelope of every JSON response
type ResponseDTO struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(log *zap.Logger, w http.ResponseWriter, code int, response ResponseDTO) {
	w.Header().Set(headerContentType, mimeApplicationJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Warn("Failed to encode response", zap.Error(err))
	}
}

func writeSuccess(log *zap.Logger, w http.ResponseWriter, message string, data interface{}) {
	writeJSON(log, w, http.StatusOK, ResponseDTO{Success: true, Message: message, Data: data})
}

func writeError(log *zap.Logger, w http.ResponseWriter, code int, message string) {
	writeJSON(log, w, code, ResponseDTO{Success: false, Message: message})
}
