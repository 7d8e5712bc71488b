// Configuración de conexión a la base de datos.

package dto

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
)

var DB *sql.DB

func ConectarBaseDatos() {
	dsn := os.Getenv("LOSIMPLE_DSN")
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/losimple?charset=utf8mb4&parseTime=True&loc=Local"
	}

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal("Error al conectar la base de datos:", err)
	}
	err = DB.Ping()
	if err != nil {
		log.Fatal("No se pudo hacer ping a la base de datos:", err)
	}
}
