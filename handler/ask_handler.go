package handler

import (
	"etudia/dto"
	"etudia/usecase"
	"etudia/utils"

	"github.com/gin-gonic/gin"
)

func AskHandler(c *gin.Context, askService *usecase.AskService) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, msgInvalidBody)
		return
	}

	answer, err := askService.Ask(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, msgNoteNotFound)
		return
	}

	utils.Success(c, dto.AskResponse{Answer: answer})
}
