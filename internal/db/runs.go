package db

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/uwb.report/internal/uwb"
)

// Run is one recorded analysis run.
type Run struct {
	RunID       string
	InputDir    string
	SummaryPath string
	FileCount   int
	CreatedAt   time.Time
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// RecordRun stores a run and its summary table in a single transaction and
// returns the stored run with its generated ID.
func (db *DB) RecordRun(inputDir, summaryPath string, table uwb.SummaryTable) (Run, error) {
	run := Run{
		RunID:       uuid.NewString(),
		InputDir:    inputDir,
		SummaryPath: summaryPath,
		FileCount:   len(table),
		CreatedAt:   db.Clock.Now().UTC(),
	}

	tx, err := db.Begin()
	if err != nil {
		return Run{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO analysis_runs (run_id, input_dir, summary_path, file_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.RunID, run.InputDir, run.SummaryPath, run.FileCount, run.CreatedAt.UnixNano(),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO file_reports (
			run_id, position, file, target_distance_m, target_hz, actual_hz,
			avg_delta_ms, measured_mean_m, error_m, std_dev_m, samples
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare report insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range table {
		if _, err := stmt.Exec(
			run.RunID, i, r.File,
			nullFloat(r.TargetDistanceM), nullFloat(r.TargetHz), nullFloat(r.ActualHz),
			nullFloat(r.AvgDeltaMs), nullFloat(r.MeasuredMeanM), nullFloat(r.ErrorM),
			nullFloat(r.StdDevM), r.Samples,
		); err != nil {
			return Run{}, fmt.Errorf("insert report %s: %w", r.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// Runs lists recorded runs, newest first. A limit of 0 or less returns all.
func (db *DB) Runs(limit int) ([]Run, error) {
	query := `SELECT run_id, input_dir, summary_path, file_count, created_at
		FROM analysis_runs ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			createdAt int64
		)
		if err := rows.Scan(&r.RunID, &r.InputDir, &r.SummaryPath, &r.FileCount, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunReports returns the summary table of one run in its original order.
func (db *DB) RunReports(runID string) (uwb.SummaryTable, error) {
	rows, err := db.Query(
		`SELECT file, target_distance_m, target_hz, actual_hz, avg_delta_ms,
			measured_mean_m, error_m, std_dev_m, samples
		FROM file_reports WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var table uwb.SummaryTable
	for rows.Next() {
		var (
			r                                        uwb.FileReport
			dist, target, actual, delta, mean, e, sd sql.NullFloat64
		)
		if err := rows.Scan(&r.File, &dist, &target, &actual, &delta, &mean, &e, &sd, &r.Samples); err != nil {
			return nil, err
		}
		r.TargetDistanceM = floatOrNaN(dist)
		r.TargetHz = floatOrNaN(target)
		r.ActualHz = floatOrNaN(actual)
		r.AvgDeltaMs = floatOrNaN(delta)
		r.MeasuredMeanM = floatOrNaN(mean)
		r.ErrorM = floatOrNaN(e)
		r.StdDevM = floatOrNaN(sd)
		table = append(table, r)
	}
	return table, rows.Err()
}
