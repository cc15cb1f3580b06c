package storage

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

func newMockPostgresLog(t *testing.T) (*PostgresLog, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}

	logger, _ := zap.NewDevelopment()

	return &PostgresLog{db: db, logger: logger}, mock
}

func TestPostgresWriteConfirmedAction(t *testing.T) {
	log, mock := newMockPostgresLog(t)
	defer log.Close()

	mock.ExpectExec("INSERT INTO action_log").
		WithArgs(
			"open-1", "OPEN", "simulated", 1.0, 0.0,
			sqlmock.AnyArg(), "matched", true, sqlmock.AnyArg(), 180.0,
			5.0, 4.0, 0.0, 0.01,
			0.0, 0.2, sqlmock.AnyArg(), "g1", int64(11), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	action := testAction("open-1")
	action.Result.ConfirmedAt = action.Record.IssuedAt.Add(180 * time.Millisecond)
	action.Result.Latency = 180 * time.Millisecond
	action.After.CurrentTick = 11
	action.LoggedAt = time.Now()

	err := log.Write(context.Background(), action)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestPostgresWriteUnconfirmedActionUsesNulls(t *testing.T) {
	log, mock := newMockPostgresLog(t)
	defer log.Close()

	mock.ExpectExec("INSERT INTO action_log").
		WithArgs(
			"open-2", "OPEN", "simulated", 1.0, 0.0,
			sqlmock.AnyArg(), "timed_out", false, nil, nil,
			4.0, 4.0, 0.01, 0.01,
			0.2, 0.2, 0.0, "g1", int64(11), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	action := testAction("open-2")
	action.Result.Outcome = types.OutcomeTimedOut
	action.Result.Confirmed = false
	action.Result.Latency = 0
	action.Before = action.After
	action.After.CurrentTick = 11
	action.Before.CurrentTick = 11
	action.LoggedAt = time.Now()

	err := log.Write(context.Background(), action)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
}
