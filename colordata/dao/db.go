package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/go-sql-driver/mysql"
	"github.com/inscription-c/ccoin/log"
	gormMysqlDriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB embeds gorm.DB and carries the queries of the color data store.
type DB struct {
	*gorm.DB
}

// DBOptions holds the configuration of the database connection.
type DBOptions struct {
	addr     string
	user     string
	password string
	dbName   string

	dialector         gorm.Dialector
	log               btclog.Logger
	autoMigrateTables []interface{}
}

// DBOption is a function type that modifies DBOptions.
type DBOption func(*DBOptions)

// WithAddr sets the host:port of the mysql server.
func WithAddr(addr string) DBOption {
	return func(o *DBOptions) {
		o.addr = addr
	}
}

// WithUser sets the mysql user.
func WithUser(user string) DBOption {
	return func(o *DBOptions) {
		o.user = user
	}
}

// WithPassword sets the password of the mysql user.
func WithPassword(password string) DBOption {
	return func(o *DBOptions) {
		o.password = password
	}
}

// WithDBName sets the database, created on first connect when missing.
func WithDBName(dbName string) DBOption {
	return func(o *DBOptions) {
		o.dbName = dbName
	}
}

// WithLogger sets the logger sql statements are traced to.
func WithLogger(log btclog.Logger) DBOption {
	return func(o *DBOptions) {
		o.log = log
	}
}

// WithAutoMigrateTables sets the tables migrated when the database opens.
func WithAutoMigrateTables(tables ...interface{}) DBOption {
	return func(o *DBOptions) {
		o.autoMigrateTables = tables
	}
}

// WithDialector opens the database through dialector instead of mysql.
func WithDialector(dialector gorm.Dialector) DBOption {
	return func(o *DBOptions) {
		o.dialector = dialector
	}
}

// Transaction executes fn within a database transaction. Nested calls use
// save points.
func (d *DB) Transaction(fn func(tx *DB) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&DB{DB: tx})
	})
}

// DSN formats the mysql data source name of dbName.
func DSN(user, password, addr, dbName string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// NewDB opens the database with the provided options.
func NewDB(opts ...DBOption) (*DB, error) {
	options := &DBOptions{
		log: log.Gorm,
	}
	for _, opt := range opts {
		opt(options)
	}

	dialector := options.dialector
	if dialector == nil {
		db, err := gorm.Open(gormMysqlDriver.Open(DSN(options.user, options.password, options.addr, "")),
			&gorm.Config{Logger: logger.Discard})
		if err != nil {
			return nil, fmt.Errorf("gorm open :%v", err)
		}
		createDb := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`;", options.dbName)
		if err = db.Exec(createDb).Error; err != nil {
			return nil, fmt.Errorf("gorm create database :%v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		dialector = gormMysqlDriver.Open(DSN(options.user, options.password, options.addr, options.dbName))
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: &GormLogger{Logger: options.log}})
	if err != nil {
		return nil, fmt.Errorf("gorm open :%v", err)
	}
	if err := db.AutoMigrate(options.autoMigrateTables...); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm db :%v", err)
	}
	if options.dialector == nil {
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetMaxIdleConns(50)
	}
	return &DB{DB: db}, nil
}

// Close releases the connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GormLogger adapts a btclog.Logger to the gorm logger interface.
type GormLogger struct {
	btclog.Logger
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	switch level {
	case logger.Silent:
		g.Logger.SetLevel(btclog.LevelOff)
	case logger.Error:
		g.Logger.SetLevel(btclog.LevelError)
	case logger.Warn:
		g.Logger.SetLevel(btclog.LevelWarn)
	case logger.Info:
		g.Logger.SetLevel(btclog.LevelInfo)
	}
	return g
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	g.Logger.Infof(msg, data...)
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	g.Logger.Warnf(msg, data...)
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	g.Logger.Errorf(msg, data...)
}

// Trace logs every statement as json at trace level.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.Logger.Level() > btclog.LevelTrace {
		return
	}
	sql, rows := fc()
	sqlInfo := struct {
		Elapsed int64
		Rows    int64
		Err     string `json:",omitempty"`
		Sql     string
	}{
		Elapsed: time.Since(begin).Milliseconds(),
		Rows:    rows,
		Sql:     sql,
	}
	if err != nil {
		sqlInfo.Err = err.Error()
	}
	sqlInfoByte, _ := json.Marshal(sqlInfo)
	g.Logger.Trace(string(sqlInfoByte))
}
