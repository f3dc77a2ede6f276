package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

/* ---------------- Public pages ---------------- */

// GET /
func (d *deps) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"title": "Welcome | " + titleSuffix})
}

// GET /about
func (d *deps) about(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"title": "About Us | " + titleSuffix})
}

// GET /login
func (d *deps) loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"title": "Login | " + titleSuffix})
}

// GET /register
func (d *deps) registerPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"title": "Register | " + titleSuffix})
}

// GET /logout
func (d *deps) logout(c *gin.Context) {
	if sid := c.GetString("sessionId"); sid != "" {
		if err := d.sessions.Destroy(c.Request.Context(), sid); err != nil {
			log.Println("session destroy error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging out."})
			return
		}
	}
	clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}
