package routes

import (
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"winterfell/middlewares"
	"winterfell/models"
	"winterfell/utils"
)

/* ---------------- Session cookie helpers ---------------- */

func setSessionCookie(c *gin.Context, sid string) error {
	token, err := utils.GenerateSessionToken(sid)
	if err != nil {
		return err
	}
	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(middlewares.SessionCookie, token, int(utils.SessionTTL.Seconds()), "/", "", secure, true)
	return nil
}

func clearSessionCookie(c *gin.Context) {
	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(middlewares.SessionCookie, "", -1, "/", "", secure, true)
}

// startSession regenerates the session for the given user and sets the
// cookie. Used by login and by the post-registration auto-login.
func (d *deps) startSession(c *gin.Context, u *models.User) error {
	sid, err := d.sessions.Create(c.Request.Context(), utils.Session{UserID: u.ID, Role: u.Role})
	if err != nil {
		return err
	}
	return setSessionCookie(c, sid)
}

/* ---------------- Validation helpers ---------------- */

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validGradYear(year int) bool {
	return year >= 1900 && year <= time.Now().Year()
}

// validPhone accepts an optional leading + and 7 to 15 digits, ignoring
// spaces and dashes.
func validPhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) < 7 || len(cleaned) > 15 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type registrationInput struct {
	Name              string `form:"name" json:"name"`
	Email             string `form:"email" json:"email"`
	Password          string `form:"password" json:"password"`
	ConfirmPassword   string `form:"confirmPassword" json:"confirmPassword"`
	GradYear          int    `form:"gradYear" json:"gradYear"`
	PrefEventCategory string `form:"prefEventCategory" json:"prefEventCategory"`
}

// validateRegistration mirrors the registration form rules; it returns a
// user-facing message for the first failing rule.
func validateRegistration(in registrationInput) string {
	switch {
	case in.Name == "":
		return "Please enter your name."
	case !validEmail(in.Email):
		return "Please enter a valid email address."
	case in.Password == "":
		return "Please enter a password."
	case in.Password != in.ConfirmPassword:
		return "Passwords do not match."
	case !validGradYear(in.GradYear):
		return "Please enter a valid graduation year."
	case !models.ValidCategory(in.PrefEventCategory):
		return "Please select your preferred event category."
	}
	return ""
}

/* ---------------- Account lifecycle ---------------- */

// POST /users/register
func (d *deps) register(c *gin.Context) {
	var in registrationInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	if msg := validateRegistration(in); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	// Friendly pre-check; the unique index on email is the actual guarantee
	// against a racing duplicate.
	existing, err := d.users.FindByEmail(in.Email)
	if err != nil {
		log.Println("register email check error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred while checking your email."})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Email is already in use."})
		return
	}

	u := models.User{
		Name:              in.Name,
		Email:             in.Email,
		Password:          in.Password,
		GradYear:          in.GradYear,
		PrefEventCategory: in.PrefEventCategory,
		Role:              models.RoleAlumni,
	}
	if err := d.users.Insert(&u); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email is already in use."})
			return
		}
		log.Println("register insert error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user."})
		return
	}

	if err := d.startSession(c, &u); err != nil {
		log.Println("register session error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error starting session."})
		return
	}
	c.Redirect(http.StatusFound, "/users/dashboard")
}

// POST /users/login
func (d *deps) login(c *gin.Context) {
	var in struct {
		Email    string `form:"email" json:"email"`
		Password string `form:"password" json:"password"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	if !validEmail(in.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please enter a valid email address."})
		return
	}

	u, err := d.users.FindByEmail(in.Email)
	if err != nil {
		log.Println("login lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred, please try again."})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email address."})
		return
	}
	if !d.users.VerifyPassword(in.Password, u.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid password."})
		return
	}

	if err := d.startSession(c, u); err != nil {
		log.Println("login session error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error starting session."})
		return
	}
	if u.Role == models.RoleAdmin {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/users/dashboard")
}

/* ---------------- Member pages ---------------- */

// GET /users/dashboard
func (d *deps) dashboard(c *gin.Context) {
	u, err := d.users.FindByID(c.GetString("userId"))
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "User not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title": "Dashboard | " + titleSuffix,
		"user":  u,
	})
}

// GET /users/profile
func (d *deps) profilePage(c *gin.Context) {
	u, err := d.users.FindByID(c.GetString("userId"))
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "User not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title": "Profile | " + titleSuffix,
		"user":  u,
	})
}

// POST /users/profile
func (d *deps) updateProfile(c *gin.Context) {
	var in struct {
		Country           string `form:"country" json:"country"`
		Phone             string `form:"phone" json:"phone"`
		PrefEventCategory string `form:"preferredCategory" json:"preferredCategory"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	if in.Country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please enter your current country of residence."})
		return
	}
	if !validPhone(in.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please enter a valid phone number."})
		return
	}

	upd := models.UserUpdate{
		Country: &in.Country,
		Phone:   &in.Phone,
	}
	if in.PrefEventCategory != "" {
		if !models.ValidCategory(in.PrefEventCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please select a valid event category."})
			return
		}
		upd.PrefEventCategory = &in.PrefEventCategory
	}

	if err := d.users.Update(c.GetString("userId"), upd); err != nil {
		log.Println("profile update error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating profile."})
		return
	}
	c.Redirect(http.StatusFound, "/users/dashboard")
}
