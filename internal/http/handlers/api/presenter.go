package api

import (
	"time"

	"github.com/parcelkeep/internal/models"
)

// RecipientView 收件人对外结构，附件只输出元信息
type RecipientView struct {
	ID               uint               `json:"id"`
	RecipientName    string             `json:"recipient_name"`
	RecipientEmail   string             `json:"recipient_email"`
	RecipientContact int64              `json:"recipient_contact"`
	Address          string             `json:"address"`
	IDProof          *models.Attachment `json:"id_proof"`
	Image            *models.Attachment `json:"image"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// PackageView 包裹对外结构
type PackageView struct {
	TrackingNumber int64              `json:"tracking_number"`
	Status         string             `json:"status"`
	SendDate       time.Time          `json:"send_date"`
	SenderName     string             `json:"sender_name"`
	RecipientID    uint               `json:"recipient_id"`
	Recipient      *RecipientView     `json:"recipient,omitempty"`
	Origin         string             `json:"origin"`
	Destination    string             `json:"destination"`
	Description    string             `json:"description"`
	PackageWeight  float64            `json:"package_weight"`
	WeightDisplay  string             `json:"weight_display"`
	Price          float64            `json:"price"`
	PriceDisplay   string             `json:"price_display"`
	IDProof        *models.Attachment `json:"id_proof"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func presentRecipient(r *models.Recipient) *RecipientView {
	if r == nil {
		return nil
	}
	return &RecipientView{
		ID:               r.ID,
		RecipientName:    r.RecipientName,
		RecipientEmail:   r.RecipientEmail,
		RecipientContact: r.RecipientContact,
		Address:          r.Address,
		IDProof:          r.IDProof.Meta(),
		Image:            r.Image.Meta(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func presentRecipients(items []models.Recipient) []RecipientView {
	views := make([]RecipientView, 0, len(items))
	for i := range items {
		views = append(views, *presentRecipient(&items[i]))
	}
	return views
}

func presentPackage(p *models.Package) *PackageView {
	if p == nil {
		return nil
	}
	return &PackageView{
		TrackingNumber: p.TrackingNumber,
		Status:         p.Status,
		SendDate:       p.SendDate,
		SenderName:     p.SenderName,
		RecipientID:    p.RecipientID,
		Recipient:      presentRecipient(p.Recipient),
		Origin:         p.Origin,
		Destination:    p.Destination,
		Description:    p.Description,
		PackageWeight:  p.PackageWeight,
		WeightDisplay:  models.FormatWeight(p.PackageWeight),
		Price:          p.Price,
		PriceDisplay:   models.FormatPrice(p.Price),
		IDProof:        p.IDProof.Meta(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func presentPackages(items []models.Package) []PackageView {
	views := make([]PackageView, 0, len(items))
	for i := range items {
		views = append(views, *presentPackage(&items[i]))
	}
	return views
}
