package lookup

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/database"
	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/utils/response"
	"gorm.io/gorm"
)

// Reference-data endpoints for campuses, programs, trades and OEPs. Reads are
// open to any authenticated user; writes sit behind the admin middleware.

// ListCampuses handles GET /api/v1/campuses
func ListCampuses(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var campuses []model.Campus
	if err := db.Order("code ASC").Find(&campuses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch campuses")
	}
	return response.Success(c, fiber.Map{"campuses": campuses})
}

// GetCampus handles GET /api/v1/campuses/:id
func GetCampus(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid campus ID")
	}

	var campus model.Campus
	if err := db.Preload("Batches").First(&campus, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Campus not found")
		}
		return response.InternalServerError(c, "Failed to fetch campus")
	}
	return response.Success(c, campus)
}

// CreateCampus handles POST /api/v1/admin/campuses
func CreateCampus(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var campus model.Campus
	if err := c.BodyParser(&campus); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if campus.Name == "" || campus.Code == "" {
		return response.BadRequest(c, "Name and code are required")
	}

	if err := db.Create(&campus).Error; err != nil {
		return response.Conflict(c, "Campus code already exists")
	}
	return response.Created(c, campus)
}

// ListPrograms handles GET /api/v1/programs
func ListPrograms(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var programs []model.Program
	if err := db.Order("code ASC").Find(&programs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch programs")
	}
	return response.Success(c, fiber.Map{"programs": programs})
}

// CreateProgram handles POST /api/v1/admin/programs
func CreateProgram(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var program model.Program
	if err := c.BodyParser(&program); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if program.Name == "" || program.Code == "" {
		return response.BadRequest(c, "Name and code are required")
	}

	if err := db.Create(&program).Error; err != nil {
		return response.Conflict(c, "Program code already exists")
	}
	return response.Created(c, program)
}

// ListTrades handles GET /api/v1/trades
func ListTrades(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var trades []model.Trade
	if err := db.Order("code ASC").Find(&trades).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch trades")
	}
	return response.Success(c, fiber.Map{"trades": trades})
}

// CreateTrade handles POST /api/v1/admin/trades
func CreateTrade(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var trade model.Trade
	if err := c.BodyParser(&trade); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if trade.Name == "" || trade.Code == "" {
		return response.BadRequest(c, "Name and code are required")
	}

	if err := db.Create(&trade).Error; err != nil {
		return response.Conflict(c, "Trade code already exists")
	}
	return response.Created(c, trade)
}

// ListOEPs handles GET /api/v1/oeps
func ListOEPs(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var oeps []model.OEP
	if err := db.Order("name ASC").Find(&oeps).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch OEPs")
	}
	return response.Success(c, fiber.Map{"oeps": oeps})
}

// CreateOEP handles POST /api/v1/admin/oeps
func CreateOEP(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var oep model.OEP
	if err := c.BodyParser(&oep); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if oep.Name == "" || oep.LicenseNumber == "" {
		return response.BadRequest(c, "Name and license number are required")
	}

	if err := db.Create(&oep).Error; err != nil {
		return response.Conflict(c, "OEP license number already exists")
	}
	return response.Created(c, oep)
}
