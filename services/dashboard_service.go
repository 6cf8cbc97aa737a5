package services

import (
	"context"
	"time"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const summaryCacheKey = "dashboard:summary"

type DashboardSummary struct {
	Realized    int     `json:"realized"`
	Received    float64 `json:"received"`
	Receivable  float64 `json:"receivable"`
	Upcoming    int64   `json:"upcoming"`
	NotRealized int64   `json:"notRealized"`
}

type AgendaItem struct {
	SessionID      uint   `json:"sessionId"`
	ClientID       uint   `json:"clientId"`
	Client         string `json:"client"`
	Phone          string `json:"phone"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	AttendanceType string `json:"attendanceType"`
}

type DashboardService struct {
	db    *gorm.DB
	cache *cache.Cache
	now   func() time.Time
}

// NewDashboardService builds the service. A nil cache disables caching of
// the summary.
func NewDashboardService(db *gorm.DB, c *cache.Cache) *DashboardService {
	return &DashboardService{db: db, cache: c, now: time.Now}
}

// Summary reports the current month up to today: realized sessions and the
// value received and still receivable for them, plus counts of sessions
// ahead and of past sessions never marked realized.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(summaryCacheKey); ok {
			return cached.(*DashboardSummary), nil
		}
	}

	today := utils.CalendarDate(s.now())
	todayStr := utils.FormatDate(today)
	monthStart, _ := utils.MonthBounds(today.Year(), int(today.Month()))
	db := s.db.WithContext(ctx)

	var realized []models.Session
	if err := db.Where("date >= ? AND date <= ? AND realized = ?", monthStart, todayStr, true).
		Find(&realized).Error; err != nil {
		return nil, err
	}

	summary := &DashboardSummary{Realized: len(realized)}
	for _, session := range realized {
		if session.Value == nil {
			continue
		}
		if session.Paid {
			summary.Received += *session.Value
		} else {
			summary.Receivable += *session.Value
		}
	}

	if err := db.Model(&models.Session{}).Where("date > ?", todayStr).Count(&summary.Upcoming).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Session{}).
		Where("date < ? AND realized = ?", todayStr, false).
		Count(&summary.NotRealized).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetDefault(summaryCacheKey, summary)
	}
	return summary, nil
}

// Upcoming lists unrealized sessions from today through the next 7 days.
func (s *DashboardService) Upcoming(ctx context.Context) ([]AgendaItem, error) {
	today := utils.CalendarDate(s.now())
	return s.agenda(ctx, utils.FormatDate(today), utils.FormatDate(today.AddDate(0, 0, 7)))
}

// NextDay lists unrealized sessions on the next business day.
func (s *DashboardService) NextDay(ctx context.Context) ([]AgendaItem, error) {
	day := utils.FormatDate(utils.NextBusinessDay(utils.CalendarDate(s.now())))
	return s.agenda(ctx, day, day)
}

// Invalidate drops the cached summary.
func (s *DashboardService) Invalidate() {
	if s.cache != nil {
		s.cache.Delete(summaryCacheKey)
	}
}

func (s *DashboardService) agenda(ctx context.Context, from, to string) ([]AgendaItem, error) {
	var sessions []models.Session
	if err := s.db.WithContext(ctx).
		Preload("Client").
		Where("date >= ? AND date <= ? AND realized = ?", from, to, false).
		Order("date, time").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	items := make([]AgendaItem, 0, len(sessions))
	for _, session := range sessions {
		item := AgendaItem{
			SessionID:      session.ID,
			ClientID:       session.ClientID,
			Date:           utils.DisplayDate(session.Date),
			Time:           session.Time,
			AttendanceType: session.AttendanceType,
		}
		if session.Client != nil {
			item.Client = session.Client.Name
			item.Phone = session.Client.Phone
		}
		items = append(items, item)
	}
	return items, nil
}
