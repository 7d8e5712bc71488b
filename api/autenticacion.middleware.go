package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"losimple/dto"
	"losimple/servicio"
)

var secretKey = claveSecreta()

func claveSecreta() []byte {
	if clave := os.Getenv("LOSIMPLE_JWT_SECRET"); clave != "" {
		return []byte(clave)
	}
	return []byte("clave_secreta_super_segura")
}

func Autenticar() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")

		// Normalizamos: eliminamos el "Bearer "
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token requerido"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return secretKey, nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			id, _ := claims["id"].(string)
			rol, _ := claims["rol"].(string)
			nombre, _ := claims["nombre"].(string)

			c.Set("usuarioID", id)
			c.Set("rol", rol)
			c.Set("nombre", nombre)
			c.Next()
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			return
		}
	}
}

// actorDesdeContexto arma el actor con lo que dejó el middleware.
func actorDesdeContexto(c *gin.Context) dto.Actor {
	id, _ := c.Get("usuarioID")
	rol, _ := c.Get("rol")
	actor := dto.Actor{}
	actor.ID, _ = id.(string)
	actor.Rol, _ = rol.(string)
	return actor
}

// responderError traduce los errores del núcleo a códigos HTTP. El mensaje
// se usa solo para fallos no clasificados.
func responderError(c *gin.Context, err error, mensaje string) {
	switch {
	case errors.Is(err, servicio.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, gin.H{"error": "No encontrado"})
	case errors.Is(err, servicio.ErrPrecondicion):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Precondición no cumplida"})
	case errors.Is(err, servicio.ErrProhibido):
		c.JSON(http.StatusForbidden, gin.H{"error": "No tiene permiso para esta operación"})
	case errors.Is(err, servicio.ErrValidacion):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": mensaje})
	}
}
