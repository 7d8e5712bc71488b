// Manejador de usuarios (registro, login, creación de personal por superadmin).

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"losimple/dto"
)

// Registro de usuarios (cliente por defecto)
func RegistrarUsuario(c *gin.Context) {
	var entrada struct {
		Nombre     string `json:"nombre"`
		Correo     string `json:"correo"`
		Cedula     string `json:"cedula"`
		Contrasena string `json:"contrasena"`
	}

	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if entrada.Correo == "" || entrada.Contrasena == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Correo y contraseña son obligatorios"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(entrada.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al encriptar contraseña"})
		return
	}

	usuario := dto.Usuario{
		ID:         uuid.NewString(),
		Nombre:     entrada.Nombre,
		Correo:     entrada.Correo,
		Cedula:     entrada.Cedula,
		Contrasena: string(hash),
		Rol:        dto.RolCliente,
		CreadoEn:   time.Now(),
	}
	if err := nucleo.Usuarios.Crear(c.Request.Context(), &usuario); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar usuario"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "Usuario registrado correctamente"})
}

// Login de usuario (todos los roles)
func LoginUsuario(c *gin.Context) {
	var entrada struct {
		Correo     string `json:"correo"`
		Contrasena string `json:"contrasena"`
	}

	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	usuario, err := nucleo.Usuarios.PorCorreo(c.Request.Context(), entrada.Correo)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña incorrectos"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.Contrasena), []byte(entrada.Contrasena)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña incorrectos"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     usuario.ID,
		"nombre": usuario.Nombre,
		"rol":    usuario.Rol,
		"exp":    time.Now().Add(12 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"usuario": gin.H{
			"id":     usuario.ID,
			"nombre": usuario.Nombre,
			"rol":    usuario.Rol,
		},
	})
}

// Registro de personal (simplificadores o superadmins) por parte de un superadmin
func RegistrarUsuarioComoAdmin(c *gin.Context) {
	rol, _ := c.Get("rol")
	if rol != dto.RolSuperadmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Solo superadmins pueden crear usuarios del equipo"})
		return
	}

	var entrada struct {
		Nombre     string `json:"nombre"`
		Correo     string `json:"correo"`
		Cedula     string `json:"cedula"`
		Contrasena string `json:"contrasena"`
		Rol        string `json:"rol"` // cliente, simplificador, superadmin
	}

	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	if entrada.Rol != dto.RolCliente && entrada.Rol != dto.RolSimplificador && entrada.Rol != dto.RolSuperadmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(entrada.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al encriptar la contraseña"})
		return
	}

	usuario := dto.Usuario{
		ID:         uuid.NewString(),
		Nombre:     entrada.Nombre,
		Correo:     entrada.Correo,
		Cedula:     entrada.Cedula,
		Contrasena: string(hash),
		Rol:        entrada.Rol,
		CreadoEn:   time.Now(),
	}
	if err := nucleo.Usuarios.Crear(c.Request.Context(), &usuario); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el usuario"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "Usuario creado correctamente", "id": usuario.ID})
}
