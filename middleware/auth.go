package middleware

import (
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
)

const (
	TOKEN_KEY  = "authToken"
	PERSON_KEY = "person"
)

type AuthConfig struct {
	SessionRequired bool
	AccountRequired bool
}

// GenAuth resolves the firebase bearer token (when present) into the local
// person and stashes both on the context. With a zero-value config the
// request proceeds anonymously; requiring a session or account turns missing
// credentials into 401/403.
func GenAuth(personDB db2.PersonDatabase, authClient *auth.Client, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if config.SessionRequired || config.AccountRequired {
				abortAuth(c, http.StatusUnauthorized, "no authorization header")
			}
			return
		}
		if !strings.HasPrefix(header, "Bearer ") || len(header) < 8 {
			abortAuth(c, http.StatusUnauthorized, "incorrectly formatted authorization header")
			return
		}
		token, err := authClient.VerifyIDToken(c, header[7:])
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(TOKEN_KEY, token)

		person, err := personDB.GetPersonByFirebaseId(c, token.UID)
		if err != nil {
			if !errors.Is(err, db2.ErrNotFound) {
				abortAuth(c, http.StatusInternalServerError, "database error")
				return
			}
			if config.AccountRequired {
				abortAuth(c, http.StatusForbidden, "must have a user profile")
			}
			return
		}
		c.Set(PERSON_KEY, person)
	}
}

func abortAuth(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

func GetToken(c *gin.Context) *auth.Token {
	token, ok := c.Get(TOKEN_KEY)
	if !ok {
		return nil
	}
	return token.(*auth.Token)
}

// GetPersonMaybe returns the resolved local person or nil for anonymous
// sessions.
func GetPersonMaybe(c *gin.Context) *model.Person {
	person, ok := c.Get(PERSON_KEY)
	if !ok {
		return nil
	}
	return person.(*model.Person)
}

// GetPersonIdMaybe returns the viewer's person id, or 0 when anonymous.
func GetPersonIdMaybe(c *gin.Context) int64 {
	person := GetPersonMaybe(c)
	if person == nil {
		return 0
	}
	return person.Id
}

// MustGetPerson is for routes behind AccountRequired.
func MustGetPerson(c *gin.Context) *model.Person {
	return c.MustGet(PERSON_KEY).(*model.Person)
}
