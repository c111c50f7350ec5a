package services

import (
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"

	"gorm.io/gorm"
)

// AlertBus persists warning/info alerts and pushes them to subscribed
// clients. The insight pipeline emits here when the conflict checker flags
// a high-severity allergy hit.
type AlertBus struct {
	db  *gorm.DB
	hub *RealtimeHub
}

func NewAlertBus(db *gorm.DB, hub *RealtimeHub) *AlertBus {
	return &AlertBus{db: db, hub: hub}
}

// Emit is fire-and-forget: alert delivery must never fail the operation
// that triggered it.
func (b *AlertBus) Emit(userID uint, typ, message string) {
	if b == nil || b.db == nil || userID == 0 {
		return
	}
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = b.db.Create(a).Error

	if b.hub != nil {
		b.hub.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
}

// Recent returns the user's latest alerts, newest first.
func (b *AlertBus) Recent(userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	var alerts []models.Alert
	err := b.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
