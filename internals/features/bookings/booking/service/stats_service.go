package service

import (
	"context"
	"strings"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/features/bookings/booking/dto"
	"poolbooking_backend/internals/features/bookings/booking/model"
	"poolbooking_backend/internals/helpers/dbtime"
	"poolbooking_backend/internals/policy"
)

const (
	// MaxStatsDays bounds a statistics range.
	MaxStatsDays = 366

	defaultStatsDays = 30
)

type statusCount struct {
	SessionDay string
	Status     model.BookingStatus
	N          int64
}

// GetStats aggregates bookings per day over [from, to]. Every day of the
// range is present, zero-filled. Empty bounds mean the last thirty days.
func (l *Ledger) GetStats(ctx context.Context, actor policy.Actor, from, to string) (*dto.StatsResponse, error) {
	if err := l.gate.Authorize(ctx, actor, policy.ActionStats, policy.Booking, nil); err != nil {
		return nil, err
	}
	today := l.clock.Today()
	start, end, err := statsRange(from, to, today)
	if err != nil {
		return nil, err
	}

	var counts []statusCount
	if err := l.db.WithContext(ctx).
		Model(&model.BookingModel{}).
		Select("booking_session_date AS session_day, booking_status AS status, COUNT(*) AS n").
		Where("booking_session_date BETWEEN ? AND ?", start, end).
		Group("booking_session_date, booking_status").
		Scan(&counts).Error; err != nil {
		return nil, apperrors.Internal("failed to aggregate bookings", err)
	}

	byDay := make(map[string]*dto.StatCounts)
	for _, c := range counts {
		sc := byDay[c.SessionDay]
		if sc == nil {
			sc = &dto.StatCounts{}
			byDay[c.SessionDay] = sc
		}
		sc.Total += c.N
		switch c.Status {
		case model.BookingStatusCancelled:
			sc.Cancelled += c.N
		case model.BookingStatusVerified:
			sc.Verified += c.N
		case model.BookingStatusActive:
			if c.SessionDay < today {
				sc.NoShow += c.N
			} else {
				sc.Active += c.N
			}
		}
	}

	days := dbtime.DatesBetween(start, end)
	out := &dto.StatsResponse{From: start, To: end, Days: make([]dto.DayStats, 0, len(days))}
	for _, d := range days {
		ds := dto.DayStats{Date: d}
		if sc := byDay[d]; sc != nil {
			ds.StatCounts = *sc
		}
		out.Totals.Add(ds.StatCounts)
		out.Days = append(out.Days, ds)
	}
	return out, nil
}

func statsRange(from, to, today string) (string, string, error) {
	var err error
	if strings.TrimSpace(to) == "" {
		to = today
	} else if to, err = dbtime.ParseDate(to); err != nil {
		return "", "", apperrors.Validation("to: %s", err.Error())
	}
	if strings.TrimSpace(from) == "" {
		from = dbtime.AddDays(to, -(defaultStatsDays - 1))
	} else if from, err = dbtime.ParseDate(from); err != nil {
		return "", "", apperrors.Validation("from: %s", err.Error())
	}
	if to < from {
		return "", "", apperrors.Validation("to must not be before from")
	}
	if n := dbtime.DaysBetween(from, to); n > MaxStatsDays {
		return "", "", apperrors.Validation("range spans %d days, at most %d allowed", n, MaxStatsDays)
	}
	return from, to, nil
}
