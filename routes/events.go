package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"winterfell/models"
	"winterfell/services"
)

/* ---------------- Events ---------------- */

// GET /events/upcoming (public, response-cached)
func (d *deps) upcomingEvents(c *gin.Context) {
	events, err := d.svc.Upcoming()
	if err != nil {
		log.Println("upcoming events error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not retrieve events."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":  "Upcoming Events | " + titleSuffix,
		"events": events,
	})
}

// GET /events/participate
func (d *deps) participatePage(c *gin.Context) {
	events, err := d.svc.UpcomingForViewer(c.GetString("userId"))
	if err != nil {
		log.Println("participate page error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not retrieve events."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":  "Participate in Event | " + titleSuffix,
		"events": events,
	})
}

// POST /events/participate
func (d *deps) participate(c *gin.Context) {
	var in struct {
		EventID string `form:"eventId" json:"eventId"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	switch err := d.svc.Join(c.GetString("userId"), in.EventID); {
	case err == nil:
		d.inv.PurgeEvents(c)
		c.Redirect(http.StatusFound, "/events/myevents")
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
	case errors.Is(err, services.ErrIsOrganizer):
		c.JSON(http.StatusForbidden, gin.H{"message": "You are the organizer of this event"})
	case errors.Is(err, services.ErrAlreadyJoined):
		c.JSON(http.StatusConflict, gin.H{"message": "You are already participating in this event"})
	default:
		log.Println("participate error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to participate in event"})
	}
}

// POST /events/remove-participation
func (d *deps) removeParticipation(c *gin.Context) {
	var in struct {
		EventID string `form:"eventId" json:"eventId"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	// Leaving an event the caller never joined is still success.
	if err := d.svc.Leave(c.GetString("userId"), in.EventID); err != nil {
		log.Println("remove participation error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to remove participation in event"})
		return
	}
	d.inv.PurgeEvents(c)
	c.Redirect(http.StatusFound, "/events/myevents")
}

// GET /events/organize
func (d *deps) organizePage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":      "Organize an Event | " + titleSuffix,
		"categories": models.Categories,
	})
}

// POST /events/organize
func (d *deps) organize(c *gin.Context) {
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
		log.Println("organize error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "There was an error saving the event."})
		return
	}
	d.inv.PurgeEvents(c)
	c.Redirect(http.StatusFound, "/events/myevents")
}

// GET /events/myevents
func (d *deps) myEvents(c *gin.Context) {
	organizing, participating, err := d.svc.MyEvents(c.GetString("userId"))
	if err != nil {
		log.Println("my events error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not retrieve your events."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":               "My Events | " + titleSuffix,
		"organizingEvents":    organizing,
		"participatingEvents": participating,
	})
}

// GET /events/categories
func (d *deps) eventCategories(c *gin.Context) {
	categories, err := d.svc.CategoriesForViewer(c.GetString("userId"))
	if err != nil {
		log.Println("event categories error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not retrieve events."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":      "Event Categories | " + titleSuffix,
		"categories": categories,
	})
}

// GET /events/edit-event/:eventId
func (d *deps) editEventPage(c *gin.Context) {
	view, err := d.svc.ForEdit(c.GetString("userId"), c.Param("eventId"))
	if err != nil {
		d.rejectOwnership(c, err, "edit")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":   "Edit Event | " + titleSuffix,
		"event":   view,
		"editing": true,
	})
}

// POST /events/update-event
func (d *deps) updateEvent(c *gin.Context) {
	var in struct {
		EventID string `form:"eventId" json:"eventId"`
		services.EventInput
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	switch err := d.svc.Edit(c.GetString("userId"), in.EventID, in.EventInput); {
	case err == nil:
		d.inv.PurgeEvents(c)
		c.Redirect(http.StatusFound, "/events/myevents")
	case errors.Is(err, services.ErrInvalidEvent):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please fill in all fields with valid information."})
	default:
		d.rejectOwnership(c, err, "edit")
	}
}

// POST /events/cancel-event
func (d *deps) cancelEvent(c *gin.Context) {
	var in struct {
		EventID string `form:"eventId" json:"eventId"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	if err := d.svc.Cancel(c.GetString("userId"), in.EventID); err != nil {
		d.rejectOwnership(c, err, "cancel")
		return
	}
	d.inv.PurgeEvents(c)
	c.Redirect(http.StatusFound, "/events/myevents")
}

// GET /events/calendar/:eventId
func (d *deps) eventCalendar(c *gin.Context) {
	e, err := d.svc.Get(c.Param("eventId"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		log.Println("event calendar error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not export event."})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="event-`+e.ID+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(services.BuildICS(e)))
}

// rejectOwnership maps the ownership errors of edit/cancel onto responses.
// Not found and not organizer stay distinguishable here, matching the
// per-flow messages of the member pages.
func (d *deps) rejectOwnership(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
	case errors.Is(err, services.ErrNotOrganizer):
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only " + action + " events you are organizing"})
	default:
		log.Println("event operation error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to " + action + " event"})
	}
}
