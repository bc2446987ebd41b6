package handler

import (
	"fmt"
	"strconv"

	"etudia/dto"
	"etudia/model"
	"etudia/usecase"
	"etudia/utils"

	"github.com/gin-gonic/gin"
)

func ListNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.BadRequest(c, usecase.ErrInvalidPage.Error())
		return
	}

	result, err := notesService.ListNotes(c.Request.Context(), page)
	if err != nil {
		respondError(c, err, msgNoteNotFound)
		return
	}

	utils.Success(c, dto.NewNotesPageResponse(result.Notes, pageLinks(c, result.Info)))
}

func pageLinks(c *gin.Context, info usecase.PageInfo) map[string]dto.NoteLink {
	href := func(page int) dto.NoteLink {
		return dto.NoteLink{Href: fmt.Sprintf("%s/notes/?page=%d", utils.GetBaseURL(c), page)}
	}

	links := map[string]dto.NoteLink{
		"self": href(info.Page),
		"last": href(info.LastPage),
	}
	if info.HasPrev {
		links["prev"] = href(info.Page - 1)
	}
	if info.HasNext {
		links["next"] = href(info.Page + 1)
	}
	return links
}

func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	var note model.CourseNote
	if err := c.ShouldBindJSON(&note); err != nil {
		utils.BadRequest(c, msgInvalidBody)
		return
	}

	stored, _, err := notesService.CreateNote(c.Request.Context(), &note)
	if err != nil {
		respondError(c, err, msgNoteNotFound)
		return
	}

	utils.Success(c, dto.ToNoteResponse(stored))
}

func GetNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	note, err := notesService.GetNote(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, msgNoteNotFound)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	var note model.CourseNote
	if err := c.ShouldBindJSON(&note); err != nil {
		utils.BadRequest(c, msgInvalidBody)
		return
	}

	updated, err := notesService.UpdateNote(c.Request.Context(), c.Param("slug"), &note)
	if err != nil {
		respondError(c, err, msgNoteNotFound)
		return
	}

	utils.Success(c, dto.ToNoteResponse(updated))
}

func DeleteNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	deleted, err := notesService.DeleteNote(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, msgNoteNotFound)
		return
	}

	utils.Success(c, dto.ToNoteResponse(deleted))
}

func ListUserNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	notes, err := notesService.ListUserNotes(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err, msgUserNotFound)
		return
	}

	utils.Success(c, dto.UserNotesResponse{Notes: dto.ToNoteResponses(notes)})
}
