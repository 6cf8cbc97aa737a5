// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"

	ReminderTypeSession = "session"

	defaultReminderMessage = "Hello [ClientName], this is a reminder of your session on [Date] at [Time]."
)

// MessageSender delivers a text message and returns the provider id.
type MessageSender interface {
	Send(channel, to, body string) (string, error)
}

type TwilioSender struct {
	client       *twilio.RestClient
	phoneNumber  string
	whatsappFrom string
}

func NewTwilioSender(accountSID, authToken, phoneNumber, whatsappNumber string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		phoneNumber:  phoneNumber,
		whatsappFrom: whatsappNumber,
	}
}

// SupportsWhatsApp reports whether a WhatsApp sender number is configured.
func (t *TwilioSender) SupportsWhatsApp() bool {
	return t.whatsappFrom != ""
}

func (t *TwilioSender) Send(channel, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if channel == ChannelWhatsApp {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + t.whatsappFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(t.phoneNumber)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type ReminderReport struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type ReminderService struct {
	db       *gorm.DB
	sender   MessageSender
	whatsapp bool
	now      func() time.Time
}

// NewReminderService wires the sender. whatsapp enables the WhatsApp channel
// for clients whose phone is in E.164 form.
func NewReminderService(db *gorm.DB, sender MessageSender, whatsapp bool) *ReminderService {
	return &ReminderService{db: db, sender: sender, whatsapp: whatsapp, now: time.Now}
}

// SendDailyReminders messages every client with an unrealized session on the
// next business day. Sessions that already got a reminder are skipped; every
// attempt is logged.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (*ReminderReport, error) {
	log.Println("[REMINDER] starting daily reminder processing")
	db := s.db.WithContext(ctx)
	day := utils.FormatDate(utils.NextBusinessDay(utils.CalendarDate(s.now())))

	var sessions []models.Session
	if err := db.Preload("Client").
		Where("date = ? AND realized = ?", day, false).
		Order("time").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	template, err := s.activeTemplate(db)
	if err != nil {
		return nil, err
	}

	report := &ReminderReport{}
	for _, session := range sessions {
		if session.Client == nil || !session.Client.IsActive || session.Client.Phone == "" {
			report.Skipped++
			continue
		}

		var alreadySent int64
		if err := db.Model(&models.ReminderLog{}).
			Where("session_id = ? AND status = ?", session.ID, "sent").
			Count(&alreadySent).Error; err != nil {
			return nil, err
		}
		if alreadySent > 0 {
			report.Skipped++
			continue
		}

		message := renderReminder(template.Message, &session)
		channel := ChannelSMS
		if s.whatsapp && strings.HasPrefix(session.Client.Phone, "+") {
			channel = ChannelWhatsApp
		}

		sid, err := s.sender.Send(channel, session.Client.Phone, message)
		status := "sent"
		errorMsg := ""
		if err != nil {
			log.Printf("[REMINDER] failed to send message to %s: %v", session.Client.Phone, err)
			status = "failed"
			errorMsg = err.Error()
			report.Failed++
		} else {
			log.Printf("[REMINDER] message sent to %s, SID: %s", session.Client.Phone, sid)
			report.Sent++
		}

		reminderLog := models.ReminderLog{
			SessionID:    session.ID,
			ClientID:     session.ClientID,
			TemplateID:   template.ID,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      channel,
			SentAt:       s.now(),
		}
		if err := db.Create(&reminderLog).Error; err != nil {
			log.Printf("[REMINDER] failed to log reminder for session %d: %v", session.ID, err)
		}
	}

	log.Printf("[REMINDER] day=%s sent=%d failed=%d skipped=%d", day, report.Sent, report.Failed, report.Skipped)
	return report, nil
}

// activeTemplate returns the active session template, or an unsaved default.
func (s *ReminderService) activeTemplate(db *gorm.DB) (*models.ReminderTemplate, error) {
	var template models.ReminderTemplate
	err := db.Where("type = ? AND is_active = ?", ReminderTypeSession, true).First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ReminderTemplate{Type: ReminderTypeSession, Message: defaultReminderMessage}, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func renderReminder(message string, session *models.Session) string {
	r := strings.NewReplacer(
		"[ClientName]", session.Client.Name,
		"[Date]", utils.DisplayDate(session.Date),
		"[Time]", session.Time,
	)
	return r.Replace(message)
}
