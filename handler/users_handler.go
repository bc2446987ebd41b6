package handler

import (
	"strings"

	"etudia/dto"
	"etudia/model"
	"etudia/usecase"
	"etudia/utils"

	"github.com/gin-gonic/gin"
)

func CreateUserHandler(c *gin.Context, userService *usecase.UserService) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		utils.BadRequest(c, msgInvalidBody)
		return
	}

	stored, otpURL, err := userService.CreateUser(c.Request.Context(), &user)
	if err != nil {
		respondError(c, err, msgUserNotFound)
		return
	}

	response := dto.ToUserResponse(stored)
	response.OTPURL = otpURL
	utils.Success(c, response)
}

func GetUserHandler(c *gin.Context, userService *usecase.UserService) {
	user, err := userService.GetUser(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err, msgUserNotFound)
		return
	}

	utils.Success(c, dto.ToUserResponse(user))
}

func UpdateUserHandler(c *gin.Context, userService *usecase.UserService) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		utils.BadRequest(c, msgInvalidBody)
		return
	}

	updated, err := userService.UpdateUser(c.Request.Context(), c.Param("phone"), &user)
	if err != nil {
		respondError(c, err, msgUserNotFound)
		return
	}

	utils.Success(c, dto.ToUserResponse(updated))
}

func DeleteUserHandler(c *gin.Context, userService *usecase.UserService) {
	deleted, err := userService.DeleteUser(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err, msgUserNotFound)
		return
	}

	utils.Success(c, dto.ToUserResponse(deleted))
}

func VerifyOTPHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		utils.BadRequest(c, "OTP code is required")
		return
	}

	if err := userService.VerifyOTP(c.Request.Context(), c.Param("phone"), req.Code); err != nil {
		respondError(c, err, msgUserNotFound)
		return
	}

	utils.Success(c, dto.VerifyOTPResponse{Verified: true})
}
