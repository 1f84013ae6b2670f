// Package sqlstore persists the application's collections in PostgreSQL or
// SQLite. Tables are declared as ent schema tables and migrated with ent's
// migrator; statements go through ent's dialect-aware SQL builder so the same
// code emits $n placeholders for Postgres and ? for SQLite.
package sqlstore

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/models"
)

var (
	accountColumns  = columnNames(AccountsColumns)
	campaignColumns = columnNames(CampaignsColumns)
	referralColumns = columnNames(ReferralsColumns)
	taskColumns     = columnNames(TasksColumns)
)

// Store implements domain.Store over database/sql
type Store struct {
	db      *stdsql.DB
	dialect string
	b       *entsql.DialectBuilder
}

var _ domain.Store = (*Store)(nil)

// Open connects with the given driver ("postgres" or "sqlite3"), verifies the
// connection and applies the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != dialect.Postgres && driver != dialect.SQLite {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if driver == dialect.SQLite {
		dsn = withForeignKeys(dsn)
	}

	drv, err := entsql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to %s: %w", driver, err)
	}
	db := drv.DB()

	s := &Store{db: db, dialect: driver, b: entsql.Dialect(driver)}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed connecting to %s: %w", driver, err)
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if driver == dialect.SQLite {
		// SQLite allows a single writer; serialise through one connection.
		db.SetMaxOpenConns(1)
	}
	return s, nil
}

// withForeignKeys adds _fk=1, which ent's SQLite migrator requires.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_fk=") || strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_fk=1"
	}
	return dsn + "?_fk=1"
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) exec(ctx context.Context, query string, args []any) (stdsql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// query scans every selected row into dst, a pointer to a slice of models
// whose fields carry sql tags.
func (s *Store) query(ctx context.Context, sel *entsql.Selector, dst any) error {
	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dst)
}

// queryOne returns sql.ErrNoRows when the selector matches nothing.
func queryOne[T any](ctx context.Context, s *Store, sel *entsql.Selector) (*T, error) {
	var out []*T
	if err := s.query(ctx, sel.Limit(1), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, stdsql.ErrNoRows
	}
	return out[0], nil
}

// Accounts

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	query, args := s.b.Insert("accounts").
		Columns(accountColumns...).
		Values(a.ID, a.Name, a.Email, a.PasswordHash, a.Phone, a.IsReferred, a.ReferredBy, a.CreatedAt.UTC()).
		Query()
	if _, err := s.exec(ctx, query, args); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return domain.NewConflictError("User already exists")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *Store) getAccountWhere(ctx context.Context, p *entsql.Predicate) (*models.Account, error) {
	sel := s.b.Select(accountColumns...).From(s.b.Table("accounts")).Where(p)
	a, err := queryOne[models.Account](ctx, s, sel)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, domain.NewNotFoundError("User")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return a, nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.getAccountWhere(ctx, entsql.EQ("id", id))
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getAccountWhere(ctx, entsql.EQ("email", email))
}

func (s *Store) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	var out []*models.Account
	sel := s.b.Select(accountColumns...).
		From(s.b.Table("accounts")).
		OrderBy(entsql.Desc("created_at"))
	if err := s.query(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return out, nil
}

// Campaigns

func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	query, args := s.b.Insert("campaigns").
		Columns(campaignColumns...).
		Values(c.ID, c.Title, c.Description, c.Reward, c.StartDate.UTC(), c.EndDate.UTC(), c.Active, c.CreatedBy, c.CreatedAt.UTC()).
		Query()
	if _, err := s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	sel := s.b.Select(campaignColumns...).
		From(s.b.Table("campaigns")).
		Where(entsql.EQ("id", id))
	c, err := queryOne[models.Campaign](ctx, s, sel)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, domain.NewNotFoundError("Campaign")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign: %w", err)
	}
	return c, nil
}

func (s *Store) UpdateCampaign(ctx context.Context, c *models.Campaign) error {
	query, args := s.b.Update("campaigns").
		Set("title", c.Title).
		Set("description", c.Description).
		Set("reward", c.Reward).
		Set("start_date", c.StartDate.UTC()).
		Set("end_date", c.EndDate.UTC()).
		Set("active", c.Active).
		Where(entsql.EQ("id", c.ID)).
		Query()
	res, err := s.exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("Campaign")
	}
	return nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	var out []*models.Campaign
	sel := s.b.Select(campaignColumns...).
		From(s.b.Table("campaigns")).
		OrderBy(entsql.Desc("created_at"))
	if err := s.query(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return out, nil
}

// Referrals

func (s *Store) CreateReferral(ctx context.Context, r *models.Referral) error {
	query, args := s.b.Insert("referrals").
		Columns(referralColumns...).
		Values(r.ID, r.CampaignID, r.ReferrerID, r.Code, r.Clicks, r.Conversions, r.CreatedAt.UTC()).
		Query()
	if _, err := s.exec(ctx, query, args); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return domain.NewConflictError("Referral code already exists")
		}
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

func (s *Store) GetReferralByCode(ctx context.Context, code string) (*models.Referral, error) {
	sel := s.b.Select(referralColumns...).
		From(s.b.Table("referrals")).
		Where(entsql.EQ("code", code))
	r, err := queryOne[models.Referral](ctx, s, sel)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, domain.NewNotFoundError("Referral")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query referral: %w", err)
	}
	return r, nil
}

func (s *Store) queryReferrals(ctx context.Context, sel *entsql.Selector) ([]*models.Referral, error) {
	var out []*models.Referral
	if err := s.query(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return out, nil
}

func (s *Store) ListReferrals(ctx context.Context) ([]*models.Referral, error) {
	return s.queryReferrals(ctx, s.b.Select(referralColumns...).
		From(s.b.Table("referrals")).
		OrderBy(entsql.Desc("created_at")))
}

func (s *Store) ListReferralsByCampaign(ctx context.Context, campaignID string) ([]*models.Referral, error) {
	return s.queryReferrals(ctx, s.b.Select(referralColumns...).
		From(s.b.Table("referrals")).
		Where(entsql.EQ("campaign_id", campaignID)).
		OrderBy(entsql.Asc("created_at")))
}

func (s *Store) IncrementClicks(ctx context.Context, code string) (*models.Referral, error) {
	return s.increment(ctx, code, "clicks")
}

func (s *Store) IncrementConversions(ctx context.Context, code string) (*models.Referral, error) {
	return s.increment(ctx, code, "conversions")
}

// increment issues a single UPDATE .. SET col = col + 1, so concurrent calls
// never lose updates. Zero affected rows means the code does not exist.
func (s *Store) increment(ctx context.Context, code, column string) (*models.Referral, error) {
	query, args := s.b.Update("referrals").
		Add(column, 1).
		Where(entsql.EQ("code", code)).
		Query()
	res, err := s.exec(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to increment %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return nil, domain.NewNotFoundError("Referral")
	}
	return s.GetReferralByCode(ctx, code)
}

// Tasks

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	query, args := s.b.Insert("tasks").
		Columns(taskColumns...).
		Values(t.ID, t.CampaignID, t.Description, t.Completed, t.UserID, t.CreatedAt.UTC()).
		Query()
	if _, err := s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *Store) queryTasks(ctx context.Context, sel *entsql.Selector) ([]*models.Task, error) {
	var out []*models.Task
	if err := s.query(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return out, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return s.queryTasks(ctx, s.b.Select(taskColumns...).
		From(s.b.Table("tasks")).
		OrderBy(entsql.Desc("created_at")))
}

func (s *Store) ListTasksByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	return s.queryTasks(ctx, s.b.Select(taskColumns...).
		From(s.b.Table("tasks")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Asc("created_at")))
}

func (s *Store) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	query, args := s.b.Update("tasks").
		Set("completed", true).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := s.exec(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.NewNotFoundError("Task")
	}

	sel := s.b.Select(taskColumns...).
		From(s.b.Table("tasks")).
		Where(entsql.EQ("id", id))
	t, err := queryOne[models.Task](ctx, s, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return t, nil
}
