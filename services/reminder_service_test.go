package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agenda-backend/models"
)

type sentMessage struct {
	channel string
	to      string
	body    string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(channel, to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{channel: channel, to: to, body: body})
	return "SM123", nil
}

func TestSendDailyReminders(t *testing.T) {
	db := newTestDB(t)
	ana := seedClient(t, db, "Ana", "12345678901", 0)
	bruno := &models.Client{Name: "Bruno", TaxID: "98765432100", Phone: "11988887777", IsActive: true}
	db.Create(bruno)
	seedSession(t, db, models.Session{ClientID: ana.ID, Date: "2025-01-17", Time: "09:00"})
	seedSession(t, db, models.Session{ClientID: bruno.ID, Date: "2025-01-17", Time: "14:00"})
	seedSession(t, db, models.Session{ClientID: ana.ID, Date: "2025-01-20", Time: "09:00"})
	if err := EnsureDefaultReminderTemplate(context.Background(), db); err != nil {
		t.Fatalf("seed template: %v", err)
	}

	sender := &fakeSender{}
	svc := NewReminderService(db, sender, true)
	svc.now = fixedClock("2025-01-16")

	report, err := svc.SendDailyReminders(context.Background())
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if report.Sent != 2 || len(sender.sent) != 2 {
		t.Fatalf("expected 2 reminders, got %+v", report)
	}
	if sender.sent[0].channel != ChannelWhatsApp || sender.sent[1].channel != ChannelSMS {
		t.Fatalf("unexpected channels %+v", sender.sent)
	}
	if !strings.Contains(sender.sent[0].body, "Ana") || !strings.Contains(sender.sent[0].body, "17/01/2025") || !strings.Contains(sender.sent[0].body, "09:00") {
		t.Fatalf("placeholders not filled: %q", sender.sent[0].body)
	}

	var logs int64
	db.Model(&models.ReminderLog{}).Where("status = ?", "sent").Count(&logs)
	if logs != 2 {
		t.Fatalf("expected 2 sent logs, got %d", logs)
	}

	report, err = svc.SendDailyReminders(context.Background())
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if report.Sent != 0 || report.Skipped != 2 {
		t.Fatalf("expected reminded sessions to be skipped, got %+v", report)
	}
}

func TestSendDailyRemindersLogsFailures(t *testing.T) {
	db := newTestDB(t)
	ana := seedClient(t, db, "Ana", "12345678901", 0)
	seedSession(t, db, models.Session{ClientID: ana.ID, Date: "2025-01-17", Time: "09:00"})

	sender := &fakeSender{err: errors.New("twilio down")}
	svc := NewReminderService(db, sender, false)
	svc.now = fixedClock("2025-01-16")

	report, err := svc.SendDailyReminders(context.Background())
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected 1 failure, got %+v", report)
	}

	var entry models.ReminderLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load log: %v", err)
	}
	if entry.Status != "failed" || entry.ErrorMessage != "twilio down" || entry.Channel != ChannelSMS {
		t.Fatalf("unexpected log %+v", entry)
	}

	// A failed reminder is retried on the next run.
	sender.err = nil
	report, _ = svc.SendDailyReminders(context.Background())
	if report.Sent != 1 {
		t.Fatalf("expected retry to send, got %+v", report)
	}
}

func TestRenderReminderWithoutTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReminderService(db, &fakeSender{}, false)
	template, err := svc.activeTemplate(db)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	session := &models.Session{Date: "2025-01-17", Time: "09:00", Client: &models.Client{Name: "Ana"}}
	got := renderReminder(template.Message, session)
	want := "Hello Ana, this is a reminder of your session on 17/01/2025 at 09:00."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
