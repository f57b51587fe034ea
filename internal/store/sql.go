package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

// SQL is the durable backend over MySQL. Expected schema:
//
//	CREATE TABLE accounts (
//	    id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	    login         VARCHAR(255) NOT NULL UNIQUE,
//	    password_hash VARCHAR(255) NOT NULL,
//	    role          VARCHAR(32)  NOT NULL,
//	    created_at    DATETIME     NOT NULL
//	);
//	CREATE TABLE patients (
//	    id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	    name            VARCHAR(255) NOT NULL,
//	    date_of_birth   VARCHAR(64)  NOT NULL,
//	    medical_history JSON NOT NULL,
//	    medications     JSON NOT NULL,
//	    ehr_data        JSON NOT NULL,
//	    created_at      DATETIME NOT NULL
//	);
//	CREATE TABLE interaction_checks (
//	    id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	    patient_id  BIGINT UNSIGNED NOT NULL,
//	    medications JSON NOT NULL,
//	    findings    JSON NOT NULL,
//	    checked_at  DATETIME NOT NULL,
//	    KEY idx_checks_patient (patient_id)
//	);
//
// The unique index on accounts.login is what makes registration safe
// under concurrency; the application-level existence check alone would
// race.
type SQL struct {
	db *sql.DB
}

// NewSQL wraps an open database handle.
func NewSQL(db *sql.DB) *SQL { return &SQL{db: db} }

func (s *SQL) GetAccountByID(ctx context.Context, id uint64) (model.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		"SELECT id,login,password_hash,role,created_at FROM accounts WHERE id=? LIMIT 1", id))
}

func (s *SQL) GetAccountByLogin(ctx context.Context, login string) (model.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		"SELECT id,login,password_hash,role,created_at FROM accounts WHERE login=? LIMIT 1",
		normalizeLogin(login)))
}

func (s *SQL) scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Login, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	return a, nil
}

func (s *SQL) CreateAccount(ctx context.Context, login, passwordHash string) (model.Account, error) {
	a := model.Account{
		Login:        normalizeLogin(login),
		PasswordHash: passwordHash,
		Role:         model.RoleProvider,
		CreatedAt:    time.Now().UTC(),
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (login, password_hash, role, created_at) VALUES (?,?,?,?)",
		a.Login, a.PasswordHash, a.Role, a.CreatedAt)
	if err != nil {
		// MySQL 1062 = duplicate entry for the unique login index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Account{}, ErrLoginExists
		}
		return model.Account{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, err
	}
	a.ID = uint64(id)
	return a, nil
}

func (s *SQL) ListPatients(ctx context.Context) ([]model.PatientRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id,name,date_of_birth,medical_history,medications,ehr_data,created_at FROM patients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PatientRecord
	for rows.Next() {
		p, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQL) GetPatientByID(ctx context.Context, id uint64) (model.PatientRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id,name,date_of_birth,medical_history,medications,ehr_data,created_at FROM patients WHERE id=? LIMIT 1", id)
	p, err := scanPatient(row.Scan)
	if err == sql.ErrNoRows {
		return model.PatientRecord{}, ErrNotFound
	}
	if err != nil {
		return model.PatientRecord{}, err
	}
	return p, nil
}

func (s *SQL) CreatePatient(ctx context.Context, np model.NewPatient) (model.PatientRecord, error) {
	p := model.PatientRecord{
		Name:           np.Name,
		DateOfBirth:    np.DateOfBirth,
		MedicalHistory: np.MedicalHistory,
		Medications:    np.Medications,
		EHRData:        np.EHRData,
		CreatedAt:      time.Now().UTC(),
	}
	history, err := marshalJSON(p.MedicalHistory)
	if err != nil {
		return model.PatientRecord{}, err
	}
	meds, err := marshalJSON(p.Medications)
	if err != nil {
		return model.PatientRecord{}, err
	}
	ehr, err := marshalJSON(p.EHRData)
	if err != nil {
		return model.PatientRecord{}, err
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO patients (name, date_of_birth, medical_history, medications, ehr_data, created_at) VALUES (?,?,?,?,?,?)",
		p.Name, p.DateOfBirth, history, meds, ehr, p.CreatedAt)
	if err != nil {
		return model.PatientRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PatientRecord{}, err
	}
	p.ID = uint64(id)
	return p, nil
}

func (s *SQL) CreateInteractionCheck(ctx context.Context, nc model.NewInteractionCheck) (model.InteractionCheck, error) {
	c := model.InteractionCheck{
		PatientID:   nc.PatientID,
		Medications: nc.Medications,
		Findings:    nc.Findings,
		CheckedAt:   time.Now().UTC(),
	}
	meds, err := marshalJSON(c.Medications)
	if err != nil {
		return model.InteractionCheck{}, err
	}
	findings, err := marshalJSON(c.Findings)
	if err != nil {
		return model.InteractionCheck{}, err
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO interaction_checks (patient_id, medications, findings, checked_at) VALUES (?,?,?,?)",
		c.PatientID, meds, findings, c.CheckedAt)
	if err != nil {
		return model.InteractionCheck{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.InteractionCheck{}, err
	}
	c.ID = uint64(id)
	return c, nil
}

func (s *SQL) ListInteractionChecksForPatient(ctx context.Context, patientID uint64) ([]model.InteractionCheck, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id,patient_id,medications,findings,checked_at FROM interaction_checks WHERE patient_id=? ORDER BY id",
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.InteractionCheck
	for rows.Next() {
		var c model.InteractionCheck
		var meds, findings []byte
		if err := rows.Scan(&c.ID, &c.PatientID, &meds, &findings, &c.CheckedAt); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(meds, &c.Medications); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(findings, &c.Findings); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// scanPatient reads one patients row through the provided Scan func so it
// works for both sql.Row and sql.Rows.
func scanPatient(scan func(dest ...any) error) (model.PatientRecord, error) {
	var p model.PatientRecord
	var history, meds, ehr []byte
	if err := scan(&p.ID, &p.Name, &p.DateOfBirth, &history, &meds, &ehr, &p.CreatedAt); err != nil {
		return model.PatientRecord{}, err
	}
	if err := unmarshalJSON(history, &p.MedicalHistory); err != nil {
		return model.PatientRecord{}, err
	}
	if err := unmarshalJSON(meds, &p.Medications); err != nil {
		return model.PatientRecord{}, err
	}
	if err := unmarshalJSON(ehr, &p.EHRData); err != nil {
		return model.PatientRecord{}, err
	}
	return p, nil
}

func marshalJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return b, nil
}

func unmarshalJSON(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}
