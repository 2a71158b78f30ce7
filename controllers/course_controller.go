package controllers

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studyhub/apperr"
	"studyhub/services"
	"studyhub/utils"
)

type CourseController struct {
	Courses *services.CourseService
}

func NewCourseController(courses *services.CourseService) *CourseController {
	return &CourseController{Courses: courses}
}

func (cc *CourseController) ListCourses(c *fiber.Ctx) error {
	courses, err := cc.Courses.ListCourses(c.UserContext())
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

func (cc *CourseController) GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}
	detail, err := cc.Courses.GetCourseDetails(c.UserContext(), courseID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, detail)
}

func (cc *CourseController) CreateCourse(c *fiber.Ctx) error {
	instructorID, err := currentUserID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	categoryID, err := uuid.Parse(c.FormValue("category_id"))
	if err != nil {
		return utils.FromError(c, apperr.Validation("invalid category id"))
	}

	price := 0.0
	if raw := c.FormValue("price"); raw != "" {
		price, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return utils.FromError(c, apperr.Validation("invalid price"))
		}
	}

	thumbnail, closeThumbnail, err := openFormFile(c, "thumbnailImage")
	if err != nil {
		return utils.FromError(c, err)
	}
	if closeThumbnail != nil {
		defer closeThumbnail()
	}

	course, err := cc.Courses.CreateCourse(c.UserContext(), services.CreateCourseInput{
		Name:             c.FormValue("name"),
		Description:      c.FormValue("description"),
		WhatYouWillLearn: c.FormValue("what_you_will_learn"),
		Price:            price,
		CategoryID:       categoryID,
		InstructorID:     instructorID,
		Status:           c.FormValue("status"),
		Tags:             c.FormValue("tags"),
		Instructions:     c.FormValue("instructions"),
		Thumbnail:        thumbnail,
	})
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Created(c, course)
}

func (cc *CourseController) EditCourse(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	input := services.UpdateCourseInput{
		Name:             formValue(c, "name"),
		Description:      formValue(c, "description"),
		WhatYouWillLearn: formValue(c, "what_you_will_learn"),
		Status:           formValue(c, "status"),
		Tags:             formValue(c, "tags"),
		Instructions:     formValue(c, "instructions"),
	}

	if raw := formValue(c, "price"); raw != nil {
		price, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			return utils.FromError(c, apperr.Validation("invalid price"))
		}
		input.Price = &price
	}
	if raw := formValue(c, "category_id"); raw != nil {
		categoryID, err := uuid.Parse(*raw)
		if err != nil {
			return utils.FromError(c, apperr.Validation("invalid category id"))
		}
		input.CategoryID = &categoryID
	}

	thumbnail, closeThumbnail, err := openOptionalFormFile(c, "thumbnailImage")
	if err != nil {
		return utils.FromError(c, err)
	}
	if closeThumbnail != nil {
		defer closeThumbnail()
	}
	input.Thumbnail = thumbnail

	course, err := cc.Courses.EditCourse(c.UserContext(), courseID, input)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, course)
}

func (cc *CourseController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}
	if err := cc.Courses.DeleteCourse(c.UserContext(), courseID); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": courseID})
}

func (cc *CourseController) CreateSection(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	type SectionInput struct {
		Title string `json:"title"`
	}
	var input SectionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.FromError(c, apperr.Validation("cannot parse JSON"))
	}

	section, err := cc.Courses.CreateSection(c.UserContext(), courseID, input.Title)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Created(c, section)
}

func (cc *CourseController) UpdateSection(c *fiber.Ctx) error {
	sectionID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	type SectionInput struct {
		Title    *string `json:"title"`
		Position *int    `json:"position"`
	}
	var input SectionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.FromError(c, apperr.Validation("cannot parse JSON"))
	}

	section, err := cc.Courses.UpdateSection(c.UserContext(), sectionID, input.Title, input.Position)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, section)
}

func (cc *CourseController) DeleteSection(c *fiber.Ctx) error {
	sectionID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}
	if err := cc.Courses.DeleteSection(c.UserContext(), sectionID); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": sectionID})
}

func (cc *CourseController) CreateSubSection(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.FormValue("section_id"))
	if err != nil {
		return utils.FromError(c, apperr.Validation("invalid section id"))
	}

	video, closeVideo, err := openFormFile(c, "video")
	if err != nil {
		return utils.FromError(c, err)
	}
	if closeVideo != nil {
		defer closeVideo()
	}

	subSection, err := cc.Courses.CreateSubSection(c.UserContext(), services.CreateSubSectionInput{
		SectionID:   sectionID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Duration:    c.FormValue("duration"),
		Video:       video,
	})
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Created(c, subSection)
}

func (cc *CourseController) UpdateSubSection(c *fiber.Ctx) error {
	subSectionID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	input := services.UpdateSubSectionInput{
		Title:       formValue(c, "title"),
		Description: formValue(c, "description"),
		Duration:    formValue(c, "duration"),
	}

	video, closeVideo, err := openOptionalFormFile(c, "video")
	if err != nil {
		return utils.FromError(c, err)
	}
	if closeVideo != nil {
		defer closeVideo()
	}
	input.Video = video

	subSection, err := cc.Courses.UpdateSubSection(c.UserContext(), subSectionID, input)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, subSection)
}

func (cc *CourseController) DeleteSubSection(c *fiber.Ctx) error {
	subSectionID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}
	if err := cc.Courses.DeleteSubSection(c.UserContext(), subSectionID); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": subSectionID})
}

// parseIDParam reads a UUID path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validationf("invalid %s parameter", name)
	}
	return id, nil
}

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return utils.UserIDFromLocals(c)
}

// formValue distinguishes an absent multipart field from an empty one so
// partial updates only touch fields the client actually sent.
func formValue(c *fiber.Ctx, key string) *string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// openFormFile opens a required multipart upload.
func openFormFile(c *fiber.Ctx, key string) (io.Reader, func() error, error) {
	fileHeader, err := c.FormFile(key)
	if err != nil {
		return nil, nil, apperr.Validationf("%s file is required", key)
	}
	return openHeader(fileHeader)
}

// openOptionalFormFile returns (nil, nil, nil) when the field is absent.
func openOptionalFormFile(c *fiber.Ctx, key string) (io.Reader, func() error, error) {
	fileHeader, err := c.FormFile(key)
	if err != nil {
		return nil, nil, nil
	}
	return openHeader(fileHeader)
}

func openHeader(fileHeader *multipart.FileHeader) (io.Reader, func() error, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, apperr.Dependency("open uploaded file", err)
	}
	return file, file.Close, nil
}
