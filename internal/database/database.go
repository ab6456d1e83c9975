package database

import (
	"database/sql"
	"time"

	"telegram-baccarat-bot/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn *sql.DB
}

func Init(databaseURL string) (*DB, error) {
	// 优化SQLite连接参数
	conn, err := sql.Open("sqlite3", databaseURL+"?cache=shared&mode=rwc&_journal_mode=WAL&_synchronous=NORMAL&_temp_store=memory")
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	if err := db.createTables(); err != nil {
		return nil, err
	}

	if err := db.createIndexes(); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) createTables() error {
	query := `CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		username TEXT,
		name TEXT,
		first_ts DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_ts DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := db.conn.Exec(query)
	return err
}

func (db *DB) createIndexes() error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_last_ts ON users(last_ts)`,
	}

	for _, index := range indexes {
		if _, err := db.conn.Exec(index); err != nil {
			return err
		}
	}

	return nil
}

// GetUser 按ID查询用户档案，不存在返回nil
func (db *DB) GetUser(userID int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, name, first_ts, last_ts FROM users WHERE id = ?`

	err := db.conn.QueryRow(query, userID).Scan(
		&user.ID, &user.Username, &user.Name, &user.FirstTs, &user.LastTs,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

// UpsertUser 记录用户活动：首次见到则插入，否则刷新资料和最近活跃时间
func (db *DB) UpsertUser(userID int64, username, name string) error {
	now := time.Now().UTC()

	var exists int
	err := db.conn.QueryRow(`SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		_, err = db.conn.Exec(
			`INSERT INTO users (id, username, name, first_ts, last_ts) VALUES (?, ?, ?, ?, ?)`,
			userID, username, name, now, now,
		)
		return err
	}
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(
		`UPDATE users SET username = ?, name = ?, last_ts = ? WHERE id = ?`,
		username, name, now, userID,
	)
	return err
}

// ListUsers 列出全部用户档案（开发者入口用户列表）
func (db *DB) ListUsers() ([]*models.User, error) {
	rows, err := db.conn.Query(`SELECT id, username, name, first_ts, last_ts FROM users ORDER BY last_ts DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Name, &user.FirstTs, &user.LastTs); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
