// storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tennis-tournament-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrForeignKey = errors.New("foreign key violation")
)

// Store is the relational data access layer. A single Store (and its pool)
// is shared by every request handler and the monitor.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Open connects to PostgreSQL and sizes the connection pool.
func Open(dsn string, maxOpen, maxIdle int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Config is the gorm configuration shared by Open and tests.
// Every write is a single statement, so gorm's implicit transaction is skipped.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
	}
}

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Player{},
		&models.Tournament{},
		&models.ActionLog{},
		&models.MonitoredUser{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	}
	return err
}

// likePattern builds a bound LIKE operand, escaping the wildcard characters
// with a backslash (declared via ESCAPE so SQLite honours it too).
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// --- Players ---

func (s *Store) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	q := s.DB.WithContext(ctx).Model(&models.Player{})

	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(name))
	}

	switch models.NormalizeSort(f.Sort) {
	case models.SortAsc:
		q = q.Order("ranking ASC")
	case models.SortDesc:
		q = q.Order("ranking DESC")
	default:
		q = q.Order("id ASC")
	}

	players := []models.Player{}
	if err := q.Find(&players).Error; err != nil {
		return nil, translate(err)
	}
	return players, nil
}

func (s *Store) GetPlayer(ctx context.Context, id uint) (*models.Player, error) {
	var p models.Player
	if err := s.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) PlayerExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Player{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *Store) CreatePlayer(ctx context.Context, p *models.Player) error {
	return translate(s.DB.WithContext(ctx).Create(p).Error)
}

// ReplacePlayer overwrites every editable column of p.ID.
func (s *Store) ReplacePlayer(ctx context.Context, p *models.Player) error {
	res := s.DB.WithContext(ctx).Model(&models.Player{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":    p.Name,
		"country": p.Country,
		"ranking": p.Ranking,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeletePlayer(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Player{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Tournaments ---

func (s *Store) ListTournaments(ctx context.Context, f models.TournamentFilter) ([]models.Tournament, int64, error) {
	base := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Model(&models.Tournament{})
		if loc := strings.TrimSpace(f.Location); loc != "" {
			q = q.Where("LOWER(location) = ?", strings.ToLower(loc))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	q := base().Preload("FavoritePlayer")
	switch models.NormalizeSort(f.Sort) {
	case models.SortAsc:
		q = q.Order("date ASC").Order("id ASC")
	case models.SortDesc:
		q = q.Order("date DESC").Order("id DESC")
	default:
		q = q.Order("id ASC")
	}
	if f.Limit > 0 {
		q = q.Offset(f.Offset()).Limit(f.Limit)
	}

	tournaments := []models.Tournament{}
	if err := q.Find(&tournaments).Error; err != nil {
		return nil, 0, translate(err)
	}
	for i := range tournaments {
		tournaments[i].FillFavoritePlayerName()
	}
	return tournaments, total, nil
}

func (s *Store) GetTournament(ctx context.Context, id uint) (*models.Tournament, error) {
	var t models.Tournament
	if err := s.DB.WithContext(ctx).Preload("FavoritePlayer").First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	t.FillFavoritePlayerName()
	return &t, nil
}

func (s *Store) CreateTournament(ctx context.Context, t *models.Tournament) error {
	return translate(s.DB.WithContext(ctx).Omit("FavoritePlayer").Create(t).Error)
}

// PatchTournament updates only the columns present in p.
func (s *Store) PatchTournament(ctx context.Context, id uint, p models.TournamentPatch) error {
	if p.Empty() {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return translate(err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return nil
	}

	res := s.DB.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Updates(p.Columns())
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTournament(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Tournament{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(u).Error)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// --- Action log ---

func (s *Store) AppendAction(ctx context.Context, entry *models.ActionLog) error {
	return translate(s.DB.WithContext(ctx).Create(entry).Error)
}

// CountActionsSince groups action rows at or after since by user and keeps
// the users with strictly more than minExclusive rows.
func (s *Store) CountActionsSince(ctx context.Context, action models.Action, since time.Time, minExclusive int) ([]models.ActionCount, error) {
	rows := []models.ActionCount{}
	err := s.DB.WithContext(ctx).
		Model(&models.ActionLog{}).
		Select("user_id, COUNT(*) AS count").
		Where("action = ? AND timestamp >= ?", action, since).
		Group("user_id").
		Having("COUNT(*) > ?", minExclusive).
		Order("user_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// --- Monitored users ---

func (s *Store) IsMonitored(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.MonitoredUser{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// AddMonitoredUser inserts m unless a row for m.UserID already exists.
// It reports whether a row was written.
func (s *Store) AddMonitoredUser(ctx context.Context, m *models.MonitoredUser) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("[Storage] monitored user %d already present, insert skipped", m.UserID)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ListMonitoredUsers(ctx context.Context) ([]models.MonitoredUserView, error) {
	rows := []models.MonitoredUserView{}
	err := s.DB.WithContext(ctx).
		Table("monitored_users AS m").
		Select("m.id, m.user_id, m.reason, u.username").
		Joins("LEFT JOIN users u ON u.id = m.user_id").
		Order("m.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
