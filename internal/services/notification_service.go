// internal/services/notification_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/config"
	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

// NotificationService writes in-app notification rows and, when SMTP
// is configured, mirrors them to email. Shipment progress rows are
// persisted inside the caller's transaction so a committed status
// change always carries its notifications; everything else and the
// email mirror are best effort, fired from goroutines after commit.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

type NotificationRequest struct {
	RecipientID uuid.UUID              `json:"recipient_id" validate:"required"`
	Type        string                 `json:"type" validate:"required"`
	Title       string                 `json:"title" validate:"required,max=255"`
	Message     string                 `json:"message" validate:"required"`
	Data        map[string]interface{} `json:"data,omitempty"`
	SendEmail   bool                   `json:"send_email,omitempty"`
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// notify creates the in-app row and optionally mirrors it to email.
func (s *NotificationService) notify(recipientID uuid.UUID, ntype, title, message string, data models.JSONB) {
	notification := &models.Notification{
		RecipientID: recipientID,
		Type:        ntype,
		Title:       title,
		Message:     message,
		Data:        data,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("recipient_id", recipientID).
			Error("Failed to create notification")
		return
	}

	s.emailMirror(recipientID, ntype, title, message)
}

// emailMirror sends the email copy of an already-persisted
// notification. Failures are logged, never propagated.
func (s *NotificationService) emailMirror(recipientID uuid.UUID, ntype, title, message string) {
	if !s.config.Email.Enabled {
		return
	}

	var recipient models.User
	if err := s.db.First(&recipient, recipientID).Error; err != nil {
		logrus.WithError(err).WithField("recipient_id", recipientID).
			Warn("Notification recipient not found for email delivery")
		return
	}

	tmpl := s.getEmailTemplate(ntype)
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"RecipientName": recipient.FullName,
		"Title":         title,
		"Message":       message,
		"BaseURL":       s.config.Frontend.BaseURL,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to render email template")
		return
	}

	if err := s.sendEmail(recipient.Email, title, body); err != nil {
		logrus.WithError(err).WithField("recipient_id", recipientID).
			Error("Failed to send notification email")
	}
}

// Order notifications

func (s *NotificationService) SendOrderPlacedNotification(order *models.Order) {
	data := models.JSONB{
		"order_id":   order.ID.String(),
		"product_id": order.ProductID.String(),
		"quantity":   order.Quantity,
	}

	s.notify(
		order.Product.Farm.OwnerID,
		"order_placed",
		"New order received",
		fmt.Sprintf("A retailer ordered %d %s of %s", order.Quantity, order.Product.Unit, order.Product.Name),
		data,
	)
}

func (s *NotificationService) SendOrderStatusNotification(order *models.Order) {
	data := models.JSONB{
		"order_id": order.ID.String(),
		"status":   string(order.Status),
	}

	title := "Order status updated"
	message := fmt.Sprintf("Order for %s is now %s", order.Product.Name, order.Status)

	s.notify(order.RetailerID, "order_status", title, message, data)
	if order.Product.Farm.OwnerID != uuid.Nil {
		s.notify(order.Product.Farm.OwnerID, "order_status", title, message, data)
	}
}

// Shipment notifications

// shipmentStatusRows builds the in-app rows for a shipment status
// change: the retailer always, plus the driver on assignment.
func shipmentStatusRows(shipment *models.Shipment) []models.Notification {
	data := models.JSONB{
		"shipment_id":     shipment.ID.String(),
		"order_id":        shipment.OrderID.String(),
		"status":          string(shipment.Status),
		"tracking_number": shipment.TrackingNumber,
	}

	rows := []models.Notification{{
		RecipientID: shipment.Order.RetailerID,
		Type:        "shipment_status",
		Title:       "Shipment update",
		Message:     fmt.Sprintf("Shipment %s is now %s", shipment.TrackingNumber, shipment.Status),
		Data:        data,
	}}

	if shipment.DriverID != nil && shipment.Status == models.ShipmentStatusAssigned {
		rows = append(rows, models.Notification{
			RecipientID: *shipment.DriverID,
			Type:        "shipment_assigned",
			Title:       "New delivery assigned",
			Message:     fmt.Sprintf("You were assigned shipment %s", shipment.TrackingNumber),
			Data:        data,
		})
	}

	return rows
}

// CreateShipmentStatusNotifications persists the in-app rows for a
// shipment status change inside the caller's transaction. A status
// change must never commit without its notifications; a duplicate row
// on a retried transaction is acceptable, a lost one is not.
func (s *NotificationService) CreateShipmentStatusNotifications(tx *gorm.DB, shipment *models.Shipment) error {
	rows := shipmentStatusRows(shipment)
	for i := range rows {
		if err := tx.Create(&rows[i]).Error; err != nil {
			return fmt.Errorf("failed to create shipment notification: %w", err)
		}
	}
	return nil
}

// EmailShipmentStatusNotifications mirrors already-committed shipment
// notification rows to email. Called from a goroutine after commit.
func (s *NotificationService) EmailShipmentStatusNotifications(shipment *models.Shipment) {
	for _, row := range shipmentStatusRows(shipment) {
		s.emailMirror(row.RecipientID, row.Type, row.Title, row.Message)
	}
}

// Report notifications

func (s *NotificationService) SendReportResolvedNotification(report *models.Report) {
	s.notify(
		report.SenderID,
		"report_resolved",
		"Your report was reviewed",
		fmt.Sprintf("Report %q was resolved: %s", report.Title, report.Resolution),
		models.JSONB{"report_id": report.ID.String(), "status": string(report.Status)},
	)
}

// SendCustomNotification lets admins push an arbitrary notification to
// one user.
func (s *NotificationService) SendCustomNotification(req *NotificationRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var recipient models.User
	if err := s.db.First(&recipient, req.RecipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipient", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	notification := &models.Notification{
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        models.JSONB(req.Data),
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if req.SendEmail {
		return s.sendEmail(recipient.Email, req.Title, req.Message)
	}

	return nil
}

// Inbox

func (s *NotificationService) ListNotifications(userID uuid.UUID, params utils.PaginationParams, unreadOnly bool) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("recipient_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	allowedSortFields := []string{"created_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read. Only the recipient may do
// this.
func (s *NotificationService) MarkRead(id, userID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: notification", ErrNotFound)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	err := s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Helper methods

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if !s.config.Email.Enabled || s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).
			Debug("Email disabled, skipping delivery")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"order_placed": {
			Subject: "New order received",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.RecipientName}},</h2>
	<p>{{.Message}}</p>
	<a href="{{.BaseURL}}/orders">View your orders</a>
	<p>AgriTrace</p>
</body>
</html>`,
		},
		"shipment_status": {
			Subject: "Shipment update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.RecipientName}},</h2>
	<p>{{.Message}}</p>
	<a href="{{.BaseURL}}/shipments">Track your shipment</a>
	<p>AgriTrace</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>Hello {{.RecipientName}},</p><p>{{.Message}}</p>",
	}
}
