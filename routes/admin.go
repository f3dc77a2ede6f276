package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"winterfell/models"
	"winterfell/services"
)

/* ---------------- Admin: dashboard ---------------- */

// GET /admin/dashboard
func (d *deps) adminDashboard(c *gin.Context) {
	u, err := d.users.FindByID(c.GetString("userId"))
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "User not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title": "Alumni Manager Dashboard | " + titleSuffix,
		"user":  u,
	})
}

/* ---------------- Admin: users ---------------- */

// GET /admin/manage-users
func (d *deps) manageUsers(c *gin.Context) {
	users, err := d.users.ListNonAdmin()
	if err != nil {
		log.Println("manage users error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching users."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title": "Manage Users | " + titleSuffix,
		"users": users,
	})
}

// GET /admin/add-user
func (d *deps) addUserPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"title": "Add New User | " + titleSuffix})
}

// POST /admin/add-user
func (d *deps) addUser(c *gin.Context) {
	var in registrationInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	if msg := validateRegistration(in); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	existing, err := d.users.FindByEmail(in.Email)
	if err != nil {
		log.Println("add user email check error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error checking for existing user."})
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
		log.Println("add user insert error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding new user."})
		return
	}
	c.Redirect(http.StatusFound, "/admin/manage-users")
}

// GET /admin/edit-user/:userId
func (d *deps) editUserPage(c *gin.Context) {
	u, err := d.users.FindByID(c.Param("userId"))
	if err != nil {
		log.Println("edit user lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching user."})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title": "Edit User | " + titleSuffix,
		"user":  u,
	})
}

// POST /admin/edit-user/:userId
func (d *deps) editUser(c *gin.Context) {
	var in struct {
		Name              string `form:"name" json:"name"`
		Email             string `form:"email" json:"email"`
		GradYear          int    `form:"gradYear" json:"gradYear"`
		PrefEventCategory string `form:"prefEventCategory" json:"prefEventCategory"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	switch {
	case in.Name == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name cannot be empty."})
		return
	case !validEmail(in.Email):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format."})
		return
	case !validGradYear(in.GradYear):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid graduation year."})
		return
	case !models.ValidCategory(in.PrefEventCategory):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please select a preferred event category."})
		return
	}

	upd := models.UserUpdate{
		Name:              &in.Name,
		Email:             &in.Email,
		GradYear:          &in.GradYear,
		PrefEventCategory: &in.PrefEventCategory,
	}
	if err := d.users.Update(c.Param("userId"), upd); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email is already in use."})
			return
		}
		log.Println("edit user update error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user."})
		return
	}
	c.Redirect(http.StatusFound, "/admin/manage-users")
}

// GET /admin/delete-user/:userId
//
// Deletion does not cascade into events; stale organizer/participant ids
// are tolerated.
func (d *deps) deleteUser(c *gin.Context) {
	if err := d.users.Delete(c.Param("userId")); err != nil {
		log.Println("delete user error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting alumni record."})
		return
	}
	c.Redirect(http.StatusFound, "/admin/manage-users")
}

/* ---------------- Admin: events ---------------- */

// GET /admin/manage-events
func (d *deps) manageEvents(c *gin.Context) {
	events, err := d.svc.Upcoming()
	if err != nil {
		log.Println("manage events error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching events."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":  "Manage Events | " + titleSuffix,
		"events": events,
	})
}

// GET /admin/add-event
func (d *deps) addEventPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":      "Add an Event | " + titleSuffix,
		"categories": models.Categories,
	})
}

// POST /admin/add-event
func (d *deps) addEvent(c *gin.Context) {
	var in services.EventInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	if _, err := d.svc.Organize(c.GetString("userId"), in); err != nil {
		if errors.Is(err, services.ErrInvalidEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please fill in all fields with valid information."})
			return
		}
		log.Println("add event error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "There was an error creating the event."})
		return
	}
	d.inv.PurgeEvents(c)
	c.Redirect(http.StatusFound, "/admin/manage-events")
}

// GET /admin/delete-event/:eventId
//
// No organizer check: an admin may delete any event.
func (d *deps) deleteEvent(c *gin.Context) {
	if err := d.svc.AdminCancel(c.Param("eventId")); err != nil {
		log.Println("delete event error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting event."})
		return
	}
	d.inv.PurgeEvents(c)
	c.Redirect(http.StatusFound, "/admin/manage-events")
}

/* ---------------- Admin: alumni events ---------------- */

// GET /admin/alumni-events
func (d *deps) alumniEvents(c *gin.Context) {
	users, err := d.users.ListNonAdmin()
	if err != nil {
		log.Println("alumni events error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching users."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title": "Alumni Events | " + titleSuffix,
		"users": users,
	})
}

// GET /admin/user-events/:userId
func (d *deps) userEvents(c *gin.Context) {
	u, err := d.users.FindByID(c.Param("userId"))
	if err != nil {
		log.Println("user events lookup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching user."})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}

	organizing, participating, err := d.svc.MyEvents(u.ID)
	if err != nil {
		log.Println("user events error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving events."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":               u.Name + "'s Events | " + titleSuffix,
		"user":                u,
		"organizingEvents":    organizing,
		"participatingEvents": participating,
	})
}
