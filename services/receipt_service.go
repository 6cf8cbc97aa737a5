package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"agenda-backend/config"
	"agenda-backend/models"
	"agenda-backend/utils"

	"gorm.io/gorm"
)

type ReceiptPreview struct {
	ClientID uint     `json:"clientId"`
	Month    int      `json:"month"`
	Year     int      `json:"year"`
	Count    int      `json:"count"`
	Total    float64  `json:"total"`
	Dates    []string `json:"dates"`
}

type ReceiptClient struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"taxId"`
	Email string `json:"email"`
}

// Receipt covers one client's realized sessions of one attendance type in a
// month. It is derived on demand and never stored.
type Receipt struct {
	Client         ReceiptClient           `json:"client"`
	AttendanceType string                  `json:"attendanceType"`
	Month          int                     `json:"month"`
	Year           int                     `json:"year"`
	SessionCount   int                     `json:"sessionCount"`
	Dates          []string                `json:"dates"`
	Total          float64                 `json:"total"`
	TotalFormatted string                  `json:"totalFormatted"`
	Description    string                  `json:"description"`
	IssuedAt       string                  `json:"issuedAt"`
	Issuer         *config.PracticeProfile `json:"issuer"`
}

type ReceiptService struct {
	db      *gorm.DB
	profile *config.PracticeProfile
	now     func() time.Time
}

func NewReceiptService(db *gorm.DB, profile *config.PracticeProfile) *ReceiptService {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	return &ReceiptService{db: db, profile: profile, now: time.Now}
}

// Preview sums the sessions of the month that were both realized and paid.
func (s *ReceiptService) Preview(ctx context.Context, clientID uint, month, year int) (*ReceiptPreview, error) {
	start, end, err := receiptPeriod(month, year)
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	if err := s.db.WithContext(ctx).
		Where("client_id = ? AND realized = ? AND paid = ? AND date >= ? AND date < ?", clientID, true, true, start, end).
		Order("date, time").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	preview := &ReceiptPreview{ClientID: clientID, Month: month, Year: year, Dates: []string{}}
	for _, session := range sessions {
		preview.Count++
		if session.Value != nil {
			preview.Total += *session.Value
		}
		preview.Dates = append(preview.Dates, utils.DisplayDate(session.Date))
	}
	return preview, nil
}

// Generate builds one receipt per attendance type from the client's realized
// sessions in the month. Totals are what was actually paid for them.
func (s *ReceiptService) Generate(ctx context.Context, clientID uint, month, year int) ([]Receipt, error) {
	start, end, err := receiptPeriod(month, year)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var client models.Client
	if err := db.First(&client, clientID).Error; err != nil {
		return nil, notFound(err)
	}

	var sessions []models.Session
	if err := db.Preload("Payments").
		Where("client_id = ? AND realized = ? AND date >= ? AND date < ?", clientID, true, start, end).
		Order("date, time").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}

	byType := make(map[string][]models.Session)
	var types []string
	for _, session := range sessions {
		if _, ok := byType[session.AttendanceType]; !ok {
			types = append(types, session.AttendanceType)
		}
		byType[session.AttendanceType] = append(byType[session.AttendanceType], session)
	}
	sort.Strings(types)

	issuedAt := s.now().Format(utils.DisplayLayout)
	receipts := make([]Receipt, 0, len(types))
	for _, attendance := range types {
		group := byType[attendance]
		receipt := Receipt{
			Client: ReceiptClient{
				ID:    client.ID,
				Name:  client.Name,
				TaxID: client.TaxID,
				Email: client.Email,
			},
			AttendanceType: attendance,
			Month:          month,
			Year:           year,
			SessionCount:   len(group),
			IssuedAt:       issuedAt,
			Issuer:         s.profile,
		}

		days := make([]string, 0, len(group))
		for _, session := range group {
			for _, p := range session.Payments {
				receipt.Total += p.Amount
			}
			receipt.Dates = append(receipt.Dates, utils.DisplayDate(session.Date))
			if d, err := utils.ParseDate(session.Date); err == nil {
				days = append(days, d.Format(utils.DayMonthLayout))
			}
		}
		receipt.TotalFormatted = utils.FormatMoney(receipt.Total, s.profile.Locale)
		receipt.Description = describeReceipt(len(group), s.profile.ServiceDescription, attendance, days, receipt.TotalFormatted)
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

func describeReceipt(count int, service, attendance string, days []string, total string) string {
	noun := service
	if count == 1 {
		noun = strings.TrimSuffix(service, "s")
	}
	return fmt.Sprintf("%d %s of %s held on %s, totaling %s.", count, noun, attendance, joinDays(days), total)
}

func joinDays(days []string) string {
	switch len(days) {
	case 0:
		return ""
	case 1:
		return days[0]
	default:
		return strings.Join(days[:len(days)-1], ", ") + " and " + days[len(days)-1]
	}
}

func receiptPeriod(month, year int) (string, string, error) {
	if month < 1 || month > 12 {
		return "", "", invalidf("month must be between 1 and 12")
	}
	if year < 1 {
		return "", "", invalidf("year is required")
	}
	start, end := utils.MonthBounds(year, month)
	return start, end, nil
}
