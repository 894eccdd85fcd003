package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AnnaCarter465/taxpadi/access"
	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
)

const uniqueViolation = "23505"

// SeedUsers are the demo accounts every fresh store starts with.
var SeedUsers = []access.User{
	{ID: "1", Name: "Admin User", Email: "admin@taxpadi.com", Role: access.RoleAdmin},
	{ID: "2", Name: "Jane Doe (Employee)", Email: "employee@taxpadi.com", Role: access.RoleEmployee},
	{ID: "3", Name: "John Smith (Accountant)", Email: "accountant@taxpadi.com", Role: access.RoleAccountant},
}

type DB struct {
	sqlDB *sql.DB
}

func NewDB(dbURL string) (*DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func (db *DB) GetSQLDB() *sql.DB {
	return db.sqlDB
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}

// Migrate creates the tables if they are missing and inserts the seed users.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.GetSQLDB().ExecContext(
		ctx,
		`
		CREATE TABLE IF NOT EXISTS users (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role  TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS receipts (
			seq        BIGSERIAL PRIMARY KEY,
			id         TEXT NOT NULL UNIQUE,
			file_name  TEXT NOT NULL,
			vat_amount DOUBLE PRECISION NOT NULL CHECK (vat_amount >= 0),
			date       DATE NOT NULL
		);
		CREATE TABLE IF NOT EXISTS company_profile (
			id     INT PRIMARY KEY CHECK (id = 1),
			status TEXT NOT NULL
		);
		`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, u := range SeedUsers {
		_, err = db.GetSQLDB().ExecContext(
			ctx,
			`
			INSERT INTO users (id, name, email, role) VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
			`, u.ID, u.Name, u.Email, string(u.Role))
		if err != nil {
			return fmt.Errorf("migrate: seed user %s: %w", u.ID, err)
		}
	}

	return nil
}

func (db *DB) FindAllUsers(ctx context.Context) ([]access.User, error) {
	var results []access.User

	rows, err := db.GetSQLDB().QueryContext(
		ctx,
		`
		SELECT id, name, email, role FROM users ORDER BY id
		`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			u    access.User
			role string
		)

		err = rows.Scan(&u.ID, &u.Name, &u.Email, &role)
		if err != nil {
			return nil, err
		}

		u.Role = access.Role(role)
		results = append(results, u)
	}

	return results, rows.Err()
}

func (db *DB) findUser(ctx context.Context, query string, arg string) (access.User, error) {
	var (
		u    access.User
		role string
	)

	err := db.GetSQLDB().QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return access.User{}, ErrNotFound
	}
	if err != nil {
		return access.User{}, err
	}

	u.Role = access.Role(role)

	return u, nil
}

func (db *DB) FindUserByID(ctx context.Context, id string) (access.User, error) {
	return db.findUser(ctx, `SELECT id, name, email, role FROM users WHERE id = $1`, id)
}

func (db *DB) FindUserByEmail(ctx context.Context, email string) (access.User, error) {
	return db.findUser(ctx, `SELECT id, name, email, role FROM users WHERE lower(email) = lower($1)`, email)
}

func (db *DB) CreateUser(ctx context.Context, u access.User) (access.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	_, err := db.GetSQLDB().ExecContext(
		ctx,
		`
		INSERT INTO users (id, name, email, role) VALUES ($1, $2, $3, $4)
		`, u.ID, u.Name, u.Email, string(u.Role))
	if err != nil {
		return access.User{}, mapError(err)
	}

	return u, nil
}

func (db *DB) UpdateUser(ctx context.Context, u access.User) (access.User, error) {
	res, err := db.GetSQLDB().ExecContext(
		ctx,
		`
		UPDATE users SET name = $2, email = $3, role = $4 WHERE id = $1
		`, u.ID, u.Name, u.Email, string(u.Role))
	if err != nil {
		return access.User{}, mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return access.User{}, err
	}
	if n == 0 {
		return access.User{}, ErrNotFound
	}

	return u, nil
}

func (db *DB) AddReceipt(ctx context.Context, r tax.Receipt) error {
	_, err := db.GetSQLDB().ExecContext(
		ctx,
		`
		INSERT INTO receipts (id, file_name, vat_amount, date) VALUES ($1, $2, $3, $4)
		`, r.ID, r.FileName, r.VatAmount, r.Date)

	return mapError(err)
}

// FindAllReceipts returns the ledger newest first.
func (db *DB) FindAllReceipts(ctx context.Context) ([]tax.Receipt, error) {
	var results []tax.Receipt

	rows, err := db.GetSQLDB().QueryContext(
		ctx,
		`
		SELECT id, file_name, vat_amount, date FROM receipts ORDER BY seq DESC
		`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r    tax.Receipt
			date time.Time
		)

		err = rows.Scan(&r.ID, &r.FileName, &r.VatAmount, &date)
		if err != nil {
			return nil, err
		}

		r.Date = date
		results = append(results, r)
	}

	return results, rows.Err()
}

func (db *DB) GetCompanyStatus(ctx context.Context) (tax.CompanyStatus, error) {
	var status string

	err := db.GetSQLDB().QueryRowContext(ctx, `SELECT status FROM company_profile WHERE id = 1`).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return tax.StatusUnknown, nil
	}
	if err != nil {
		return tax.StatusUnknown, err
	}

	s, _ := tax.ParseCompanyStatus(status)

	return s, nil
}

func (db *DB) SetCompanyStatus(ctx context.Context, status tax.CompanyStatus) error {
	_, err := db.GetSQLDB().ExecContext(
		ctx,
		`
		INSERT INTO company_profile (id, status) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status
		`, status.String())

	return err
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}

	return err
}
