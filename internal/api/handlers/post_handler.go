package handlers

import (
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wanderhq/tour-api/internal/service"
	"github.com/wanderhq/tour-api/internal/transfer"
	"github.com/wanderhq/tour-api/pkg/pagination"
)

type PostHandler struct {
	s service.PostService
	e service.EngagementService
}

func NewPostHandler(s service.PostService, e service.EngagementService) *PostHandler {
	return &PostHandler{s: s, e: e}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	page := pagination.Parse(c.Query("page"), c.Query("size"))

	resp, err := h.s.List(c.Context(), userID, page)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) ListPostsWithoutPagination(c *fiber.Ctx) error {
	userID := GetUserID(c)

	resp, err := h.s.ListAll(c.Context(), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) ListLikedPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	page := pagination.Parse(c.Query("page"), c.Query("size"))

	resp, err := h.s.ListLiked(c.Context(), userID, page)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) ListLikedPostsWithoutPagination(c *fiber.Ctx) error {
	userID := GetUserID(c)

	resp, err := h.s.ListLikedAll(c.Context(), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, err := c.ParamsInt("id")
	if err != nil {
		return domainError(c, err)
	}

	resp, err := h.s.Get(c.Context(), userID, int64(postID))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	fields, image, err := parsePostPayload(c)
	if err != nil {
		return domainError(c, err)
	}

	resp, err := h.s.Create(c.Context(), userID, fields, image)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, err := c.ParamsInt("id")
	if err != nil {
		return domainError(c, err)
	}

	fields, image, err := parsePostPayload(c)
	if err != nil {
		return domainError(c, err)
	}

	resp, err := h.s.Update(c.Context(), userID, int64(postID), fields, image)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return domainError(c, err)
	}

	if err := h.s.Remove(c.Context(), int64(postID)); err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": fmt.Sprintf("Post id - %d is deleted successfully", postID),
	})
}

func (h *PostHandler) CreateComment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, err := c.ParamsInt("id")
	if err != nil {
		return domainError(c, err)
	}

	var body transfer.CommentCreation
	if err := c.BodyParser(&body); err != nil {
		return domainError(c, fmt.Errorf("Comment text is required"))
	}

	comment, err := h.e.CreateComment(c.Context(), int64(postID), userID, body.Text)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, err := c.ParamsInt("id")
	if err != nil {
		return domainError(c, err)
	}

	result, err := h.e.ToggleLike(c.Context(), int64(postID), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// parsePostPayload accepts both post body shapes: a JSON document run
// through the payload normalizer, or a multipart form with an optional
// image file. Form values reuse the same empty-string/"0" unset sentinel.
func parsePostPayload(c *fiber.Ctx) (*transfer.TripFields, *multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		fields, err := service.NormalizeTripPayload(c.Body())
		return fields, nil, err
	}

	fields := &transfer.TripFields{
		Title:          formString(c, "title"),
		Caption:        formString(c, "caption"),
		ImageURL:       formString(c, "image_url"),
		Location:       formString(c, "location"),
		Description:    formString(c, "description"),
		ViewDetails:    formBool(c, "view_details"),
		Share:          formBool(c, "share"),
		IsSaved:        formBool(c, "is_saved"),
		IsShared:       formBool(c, "is_shared"),
		RegeneratePlan: formBool(c, "regenerate_plan"),
		DurationDays:   formInt(c, "duration_days"),
		DurationNights: formInt(c, "duration_nights"),
		SpotsCount:     formInt(c, "spots_count"),
		Latitude:       formFloat(c, "latitude"),
		Longitude:      formFloat(c, "longitude"),
	}
	if values := form.Value["categories"]; len(values) > 0 {
		fields.Categories = values
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}
	return fields, image, nil
}

func formString(c *fiber.Ctx, key string) *string {
	v := c.FormValue(key)
	if v == "" || v == "0" {
		return nil
	}
	return &v
}

func formBool(c *fiber.Ctx, key string) *bool {
	v := c.FormValue(key)
	if v == "" || v == "0" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func formInt(c *fiber.Ctx, key string) *int {
	v := c.FormValue(key)
	if v == "" || v == "0" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func formFloat(c *fiber.Ctx, key string) *float64 {
	v := c.FormValue(key)
	if v == "" || v == "0" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
