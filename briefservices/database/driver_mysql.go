package database

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
)

func NewDriverMySQL(config DriverMySQLConfig) Driver {
	return &driverMySQL{
		config: config,
	}
}

type DriverMySQLConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type driverMySQL struct {
	config DriverMySQLConfig
}

func (driver *driverMySQL) Name() string {
	return "mysql"
}

func (driver *driverMySQL) Open() (*sql.DB, error) {
	_ = mysql.SetLogger(log.New(io.Discard, "", log.LstdFlags))

	config := mysql.NewConfig()
	config.Net = "tcp"
	config.Addr = fmt.Sprintf("%s:%d", driver.config.Host, driver.config.Port)
	config.User = driver.config.User
	config.Passwd = driver.config.Pass
	config.DBName = driver.config.Name
	config.ParseTime = true

	return sql.Open("mysql", config.FormatDSN())
}

var mysqlLiteralReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `''`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

// QuoteLiteral escapes backslashes and control characters as well as quotes.
func (driver *driverMySQL) QuoteLiteral(value string) string {
	return "'" + mysqlLiteralReplacer.Replace(value) + "'"
}

func (driver *driverMySQL) usesLastInsertId() bool {
	return true
}

func (driver *driverMySQL) usesNumberedParameters() bool {
	return false
}
