/*
Package sqlite provides SQLite-backed persistence for the billing tracker.

PURPOSE:
  One store for everything the tracker keeps: users and sessions,
  patients and admissions, the hospital rate table, the four department
  charge tables, and payments against the aggregate claim.

KEY TABLES:
  users, sessions:   Authentication. Session tokens are UUIDs with a TTL.
  patients:          Demographics, one row per patient.
  admissions:        One row per stay. Discharge is a single write that
                     sets both status and discharge_date; the override
                     column is nullable and cleared by writing NULL.
  rate_master:       Free-form rate rows; resolution by description
                     substring happens in the billing package, not here.
  lab_entries, pharma_entries, xray_entries, counter_entries:
                     Department charges. Identical shape except
                     counter_entries carries charge_type.
  payments:          Hospital-wide receipts, append-only.

DATA ENCODING:
  Money columns are TEXT holding decimal strings; arithmetic never
  happens in SQL. Calendar dates are TEXT in YYYY-MM-DD. Timestamps are
  RFC3339 TEXT.

CONCURRENCY:
  sync.RWMutex serializes writers. Every mutation is an independent
  write and readers always refetch, so last-write-wins is the intended
  behavior, not an accident.

WAL MODE:
  SQLite is opened with WAL so dashboard reads don't block the
  department desks writing charges.

USAGE:
  store, err := sqlite.New("./data/tracker.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" in tests.

SEE ALSO:
  - billing/types.go: The record types this store persists
  - api/handlers.go: The only caller
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zohmingaRalte/muhcs-billtrack/access"
	"github.com/zohmingaRalte/muhcs-billtrack/billing"
)

// Store wraps the SQLite handle. All methods are safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// entryTables whitelists the department name to table mapping. Queries
// build table names from this map only, never from request input.
var entryTables = map[string]string{
	"lab":     "lab_entries",
	"pharma":  "pharma_entries",
	"xray":    "xray_entries",
	"counter": "counter_entries",
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_expires
		ON sessions(expires_at);

	CREATE TABLE IF NOT EXISTS patients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		age INTEGER NOT NULL DEFAULT 0,
		gender TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS admissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id INTEGER NOT NULL REFERENCES patients(id),
		admission_date TEXT NOT NULL,
		discharge_date TEXT,
		accommodation TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'admitted',
		total_bill_override TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_admissions_patient
		ON admissions(patient_id);
	CREATE INDEX IF NOT EXISTS idx_admissions_status
		ON admissions(status);
	CREATE INDEX IF NOT EXISTS idx_admissions_date
		ON admissions(admission_date DESC);

	CREATE TABLE IF NOT EXISTS rate_master (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		amount TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lab_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		admission_id INTEGER NOT NULL REFERENCES admissions(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pharma_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		admission_id INTEGER NOT NULL REFERENCES admissions(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS xray_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		admission_id INTEGER NOT NULL REFERENCES admissions(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS counter_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		admission_id INTEGER NOT NULL REFERENCES admissions(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		charge_type TEXT NOT NULL DEFAULT 'misc',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lab_entries_admission
		ON lab_entries(admission_id);
	CREATE INDEX IF NOT EXISTS idx_pharma_entries_admission
		ON pharma_entries(admission_id);
	CREATE INDEX IF NOT EXISTS idx_xray_entries_admission
		ON xray_entries(admission_id);
	CREATE INDEX IF NOT EXISTS idx_counter_entries_admission
		ON counter_entries(admission_id);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		amount TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// USERS
// =============================================================================

// User is a staff account. PasswordHash is a bcrypt hash.
type User struct {
	ID           int64
	Name         string
	PasswordHash string
	Role         access.Role
	CreatedAt    time.Time
}

// CreateUser inserts a user, updating the hash and role if the name
// already exists. Returns the user id.
func (s *Store) CreateUser(ctx context.Context, u User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			password_hash = excluded.password_hash,
			role = excluded.role
	`
	if _, err := s.db.ExecContext(ctx, query, u.Name, u.PasswordHash, string(u.Role), nowRFC3339()); err != nil {
		return 0, fmt.Errorf("failed to save user: %w", err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE name = ?", u.Name).Scan(&id)
	return id, err
}

// GetUserByName looks up a user for login. Returns (nil, nil) when the
// name is unknown.
func (s *Store) GetUserByName(ctx context.Context, name string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, password_hash, role, created_at FROM users WHERE name = ?", name))
}

// GetUser looks up a user by id. Returns (nil, nil) when missing.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, password_hash, role, created_at FROM users WHERE id = ?", id))
}

func (s *Store) scanUser(row *sql.Row) (*User, error) {
	var u User
	var role, createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = access.Role(role)
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

// UpdatePassword replaces a user's password hash.
func (s *Store) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// SESSIONS
// =============================================================================

// CreateSession records a token for a user.
func (s *Store) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		token, userID, nowRFC3339(), expiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession resolves a token to a session with the owner's name and
// role joined in. Returns (nil, nil) for unknown tokens; expiry is the
// caller's check.
func (s *Store) GetSession(ctx context.Context, token string) (*access.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sess access.Session
	var role, expiresAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT s.token, s.user_id, u.name, u.role, s.expires_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = ?`, token,
	).Scan(&sess.Token, &sess.UserID, &sess.UserName, &role, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.Role = access.Role(role)
	sess.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	return &sess, nil
}

// DeleteSession removes a token. Deleting an unknown token is not an
// error; logout is idempotent.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteExpiredSessions prunes sessions past their expiry.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at < ?", now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// =============================================================================
// PATIENTS
// =============================================================================

// Patient holds demographics for one person.
type Patient struct {
	ID       int64
	FullName string
	Age      int
	Gender   string
	Contact  string
}

// CreatePatient inserts a patient and returns the new id.
func (s *Store) CreatePatient(ctx context.Context, p Patient) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO patients (full_name, age, gender, contact, created_at) VALUES (?, ?, ?, ?, ?)",
		p.FullName, p.Age, p.Gender, p.Contact, nowRFC3339())
	if err != nil {
		return 0, fmt.Errorf("failed to create patient: %w", err)
	}
	return res.LastInsertId()
}

// GetPatient returns (nil, nil) when missing.
func (s *Store) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Patient
	err := s.db.QueryRowContext(ctx,
		"SELECT id, full_name, age, gender, contact FROM patients WHERE id = ?", id,
	).Scan(&p.ID, &p.FullName, &p.Age, &p.Gender, &p.Contact)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePatient overwrites the demographics row.
func (s *Store) UpdatePatient(ctx context.Context, p Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE patients SET full_name = ?, age = ?, gender = ?, contact = ? WHERE id = ?",
		p.FullName, p.Age, p.Gender, p.Contact, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// ADMISSIONS
// =============================================================================

// AdmissionWithPatient is a dashboard row: the admission plus the
// patient it belongs to.
type AdmissionWithPatient struct {
	Admission billing.Admission
	Patient   Patient
}

// AdmissionFilter narrows ListAdmissions. Zero value lists everything,
// newest first.
type AdmissionFilter struct {
	Status billing.AdmissionStatus // empty = all
	Search string                  // substring of patient name
	Sort   string                  // "admission_date" (default) | "patient_name"
}

// CreateAdmission inserts an admission and returns the new id. Status
// starts as admitted with no discharge date regardless of input.
func (s *Store) CreateAdmission(ctx context.Context, patientID int64, admissionDate billing.Date, ward billing.WardType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowRFC3339()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO admissions (patient_id, admission_date, accommodation, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		patientID, admissionDate.String(), string(ward), string(billing.StatusAdmitted), now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create admission: %w", err)
	}
	return res.LastInsertId()
}

// GetAdmission returns (nil, nil) when missing.
func (s *Store) GetAdmission(ctx context.Context, id int64) (*billing.Admission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, patient_id, admission_date, discharge_date, accommodation, status, total_bill_override
		FROM admissions WHERE id = ?`, id)

	a, err := scanAdmission(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAdmissions returns admissions joined with their patients,
// filtered and sorted per the filter.
func (s *Store) ListAdmissions(ctx context.Context, f AdmissionFilter) ([]AdmissionWithPatient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT a.id, a.patient_id, a.admission_date, a.discharge_date, a.accommodation, a.status, a.total_bill_override,
		       p.id, p.full_name, p.age, p.gender, p.contact
		FROM admissions a JOIN patients p ON p.id = a.patient_id`

	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "a.status = ?")
		args = append(args, string(f.Status))
	}
	if f.Search != "" {
		where = append(where, "LOWER(p.full_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	switch f.Sort {
	case "patient_name":
		query += " ORDER BY p.full_name ASC, a.id ASC"
	default:
		query += " ORDER BY a.admission_date DESC, a.id DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}
	defer rows.Close()

	var out []AdmissionWithPatient
	for rows.Next() {
		var rec AdmissionWithPatient
		var admissionDate string
		var dischargeDate, override sql.NullString
		var ward, status string
		err := rows.Scan(
			&rec.Admission.ID, &rec.Admission.PatientID, &admissionDate, &dischargeDate, &ward, &status, &override,
			&rec.Patient.ID, &rec.Patient.FullName, &rec.Patient.Age, &rec.Patient.Gender, &rec.Patient.Contact,
		)
		if err != nil {
			return nil, err
		}
		if err := fillAdmission(&rec.Admission, admissionDate, dischargeDate, ward, status, override); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateAdmission rewrites the mutable fields of an active or
// discharged stay: admission date and ward. Discharge has its own path.
func (s *Store) UpdateAdmission(ctx context.Context, id int64, admissionDate billing.Date, ward billing.WardType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE admissions SET admission_date = ?, accommodation = ?, updated_at = ?
		WHERE id = ?`,
		admissionDate.String(), string(ward), nowRFC3339(), id)
	if err != nil {
		return fmt.Errorf("failed to update admission: %w", err)
	}
	return requireRow(res)
}

// Discharge sets status and discharge date in one write so the two can
// never disagree. The status guard makes discharge one-way even if two
// requests race.
func (s *Store) Discharge(ctx context.Context, id int64, dischargeDate billing.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE admissions SET status = ?, discharge_date = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(billing.StatusDischarged), dischargeDate.String(), nowRFC3339(),
		id, string(billing.StatusAdmitted))
	if err != nil {
		return fmt.Errorf("failed to discharge admission: %w", err)
	}
	return requireRow(res)
}

// SetOverride pins the admission's used amount.
func (s *Store) SetOverride(ctx context.Context, id int64, amount billing.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE admissions SET total_bill_override = ?, updated_at = ? WHERE id = ?",
		amount.String(), nowRFC3339(), id)
	if err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	return requireRow(res)
}

// ClearOverride restores the entry-based used amount.
func (s *Store) ClearOverride(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE admissions SET total_bill_override = NULL, updated_at = ? WHERE id = ?",
		nowRFC3339(), id)
	if err != nil {
		return fmt.Errorf("failed to clear override: %w", err)
	}
	return requireRow(res)
}

func scanAdmission(scan func(dest ...any) error) (*billing.Admission, error) {
	var a billing.Admission
	var admissionDate string
	var dischargeDate, override sql.NullString
	var ward, status string

	err := scan(&a.ID, &a.PatientID, &admissionDate, &dischargeDate, &ward, &status, &override)
	if err != nil {
		return nil, err
	}
	if err := fillAdmission(&a, admissionDate, dischargeDate, ward, status, override); err != nil {
		return nil, err
	}
	return &a, nil
}

func fillAdmission(a *billing.Admission, admissionDate string, dischargeDate sql.NullString, ward, status string, override sql.NullString) error {
	var err error
	a.AdmissionDate, err = billing.ParseDate(admissionDate)
	if err != nil {
		return fmt.Errorf("admission %d: bad admission_date: %w", a.ID, err)
	}
	if dischargeDate.Valid {
		d, err := billing.ParseDate(dischargeDate.String)
		if err != nil {
			return fmt.Errorf("admission %d: bad discharge_date: %w", a.ID, err)
		}
		a.DischargeDate = &d
	}
	a.Ward = billing.WardType(ward)
	a.Status = billing.AdmissionStatus(status)
	if override.Valid {
		m, err := billing.ParseMoney(override.String)
		if err != nil {
			return fmt.Errorf("admission %d: bad override: %w", a.ID, err)
		}
		a.Override = &m
	}
	return nil
}

// =============================================================================
// RATE MASTER
// =============================================================================

// SaveRate inserts a rate row and returns its id.
func (s *Store) SaveRate(ctx context.Context, r billing.RateRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO rate_master (description, amount) VALUES (?, ?)",
		r.Description, r.Amount.String())
	if err != nil {
		return 0, fmt.Errorf("failed to save rate: %w", err)
	}
	return res.LastInsertId()
}

// ListRates returns the full rate table in insertion order, which is
// what makes first-match-wins resolution deterministic.
func (s *Store) ListRates(ctx context.Context) ([]billing.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT description, amount FROM rate_master ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	var records []billing.RateRecord
	for rows.Next() {
		var r billing.RateRecord
		var amount string
		if err := rows.Scan(&r.Description, &amount); err != nil {
			return nil, err
		}
		if r.Amount, err = billing.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("rate %q: bad amount: %w", r.Description, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// DEPARTMENT ENTRIES
// =============================================================================

// AddEntry inserts a charge into the department's table and returns the
// new id. ChargeType is persisted for counter entries only.
func (s *Store) AddEntry(ctx context.Context, dept string, e billing.Entry, createdBy string) (int64, error) {
	table, ok := entryTables[dept]
	if !ok {
		return 0, fmt.Errorf("unknown department %q", dept)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowRFC3339()
	var res sql.Result
	var err error
	if dept == "counter" {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO counter_entries (admission_id, amount, entry_date, charge_type, created_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.AdmissionID, e.Amount.String(), e.EntryDate.String(), string(e.ChargeType), createdBy, now, now)
	} else {
		res, err = s.db.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (admission_id, amount, entry_date, created_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`, table),
			e.AdmissionID, e.Amount.String(), e.EntryDate.String(), createdBy, now, now)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add %s entry: %w", dept, err)
	}
	return res.LastInsertId()
}

// GetEntry fetches one charge. Returns (nil, nil) when missing.
func (s *Store) GetEntry(ctx context.Context, dept string, id int64) (*billing.Entry, error) {
	table, ok := entryTables[dept]
	if !ok {
		return nil, fmt.Errorf("unknown department %q", dept)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cols := "id, admission_id, amount, entry_date"
	if dept == "counter" {
		cols += ", charge_type"
	}
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", cols, table), id)

	e, err := scanEntry(row.Scan, dept == "counter")
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry rewrites a charge's amount, date and (for counter
// entries) charge type.
func (s *Store) UpdateEntry(ctx context.Context, dept string, e billing.Entry) error {
	table, ok := entryTables[dept]
	if !ok {
		return fmt.Errorf("unknown department %q", dept)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var res sql.Result
	var err error
	if dept == "counter" {
		res, err = s.db.ExecContext(ctx, `
			UPDATE counter_entries SET amount = ?, entry_date = ?, charge_type = ?, updated_at = ?
			WHERE id = ?`,
			e.Amount.String(), e.EntryDate.String(), string(e.ChargeType), nowRFC3339(), e.ID)
	} else {
		res, err = s.db.ExecContext(ctx, fmt.Sprintf(`
			UPDATE %s SET amount = ?, entry_date = ?, updated_at = ? WHERE id = ?`, table),
			e.Amount.String(), e.EntryDate.String(), nowRFC3339(), e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update %s entry: %w", dept, err)
	}
	return requireRow(res)
}

// DeleteEntry removes a charge.
func (s *Store) DeleteEntry(ctx context.Context, dept string, id int64) error {
	table, ok := entryTables[dept]
	if !ok {
		return fmt.Errorf("unknown department %q", dept)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s entry: %w", dept, err)
	}
	return requireRow(res)
}

// ListEntries fetches all four department lists for one admission.
func (s *Store) ListEntries(ctx context.Context, admissionID int64) (billing.Entries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries billing.Entries
	var err error
	if entries.Lab, err = s.listDeptEntries(ctx, "lab", admissionID); err != nil {
		return billing.Entries{}, err
	}
	if entries.Pharma, err = s.listDeptEntries(ctx, "pharma", admissionID); err != nil {
		return billing.Entries{}, err
	}
	if entries.Xray, err = s.listDeptEntries(ctx, "xray", admissionID); err != nil {
		return billing.Entries{}, err
	}
	if entries.Counter, err = s.listDeptEntries(ctx, "counter", admissionID); err != nil {
		return billing.Entries{}, err
	}
	return entries, nil
}

func (s *Store) listDeptEntries(ctx context.Context, dept string, admissionID int64) ([]billing.Entry, error) {
	table := entryTables[dept]
	cols := "id, admission_id, amount, entry_date"
	if dept == "counter" {
		cols += ", charge_type"
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE admission_id = ? ORDER BY entry_date ASC, id ASC", cols, table),
		admissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", dept, err)
	}
	defer rows.Close()

	var entries []billing.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan, dept == "counter")
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func scanEntry(scan func(dest ...any) error, counter bool) (*billing.Entry, error) {
	var e billing.Entry
	var amount, entryDate string
	var chargeType string

	var err error
	if counter {
		err = scan(&e.ID, &e.AdmissionID, &amount, &entryDate, &chargeType)
	} else {
		err = scan(&e.ID, &e.AdmissionID, &amount, &entryDate)
	}
	if err != nil {
		return nil, err
	}

	if e.Amount, err = billing.ParseMoney(amount); err != nil {
		return nil, fmt.Errorf("entry %d: bad amount: %w", e.ID, err)
	}
	if e.EntryDate, err = billing.ParseDate(entryDate); err != nil {
		return nil, fmt.Errorf("entry %d: bad entry_date: %w", e.ID, err)
	}
	e.ChargeType = billing.ChargeType(chargeType)
	return &e, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

// AddPayment appends a receipt and returns its id. Payments are never
// updated or deleted.
func (s *Store) AddPayment(ctx context.Context, p billing.Payment, createdBy string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO payments (amount, payment_date, created_by, created_at) VALUES (?, ?, ?, ?)",
		p.Amount.String(), p.PaymentDate.String(), createdBy, nowRFC3339())
	if err != nil {
		return 0, fmt.Errorf("failed to add payment: %w", err)
	}
	return res.LastInsertId()
}

// ListPayments returns all payments, newest first.
func (s *Store) ListPayments(ctx context.Context) ([]billing.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, amount, payment_date FROM payments ORDER BY payment_date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []billing.Payment
	for rows.Next() {
		var p billing.Payment
		var amount, paymentDate string
		if err := rows.Scan(&p.ID, &amount, &paymentDate); err != nil {
			return nil, err
		}
		if p.Amount, err = billing.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("payment %d: bad amount: %w", p.ID, err)
		}
		if p.PaymentDate, err = billing.ParseDate(paymentDate); err != nil {
			return nil, fmt.Errorf("payment %d: bad payment_date: %w", p.ID, err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset wipes all domain data. Users and sessions survive so the
// logged-in operator doesn't lock themselves out when loading a demo
// scenario.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"payments", "counter_entries", "xray_entries", "pharma_entries",
		"lab_entries", "admissions", "patients", "rate_master",
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// requireRow converts a zero-row UPDATE/DELETE into the billing
// not-found sentinel so handlers can map it to 404.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return billing.ErrNotFound
	}
	return nil
}
