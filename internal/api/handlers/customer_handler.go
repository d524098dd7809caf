// server/internal/api/handlers/customer_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/workorder"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type CustomerHandler struct {
	DB *mongo.Database
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	filter := bson.M{"disabled": false}
	if c.Query("includeDisabled") == "true" {
		delete(filter, "disabled")
	}

	cursor, err := h.DB.Collection("customers").Find(context.Background(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query customers")
		return
	}
	defer cursor.Close(context.Background())

	var customers []models.Customer
	if err := cursor.All(context.Background(), &customers); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode customers")
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customerID := c.Param("id")

	var customer models.Customer
	err := h.DB.Collection("customers").FindOne(context.Background(), bson.M{"customerID": customerID}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, KindNotFound, "Customer not found")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retrieve customer")
		}
		return
	}
	c.JSON(http.StatusOK, customer)
}

type UpdateCustomerRequest struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Email   string          `json:"email"`
	Address *models.Address `json:"address"`
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	customerID := c.Param("id")

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Address != nil {
		set["address"] = req.Address
	}

	res, err := h.DB.Collection("customers").UpdateOne(context.Background(), bson.M{"customerID": customerID}, bson.M{"$set": set})
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to update customer")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type AddVehicleRequest struct {
	Make  string `json:"make" binding:"required"`
	Model string `json:"model" binding:"required"`
	Year  int    `json:"year" binding:"required,min=1950"`
	VIN   string `json:"vin" binding:"required,len=17"`
	Plate string `json:"plate" binding:"required"`
}

// AddVehicle appends a vehicle to the customer's ordered sequence.
func (h *CustomerHandler) AddVehicle(c *gin.Context) {
	customerID := c.Param("id")

	var req AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	vehicle := models.Vehicle{
		VehicleKey: workorder.NewID("veh"),
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		VIN:        req.VIN,
		Plate:      req.Plate,
		AddedAt:    time.Now(),
	}

	res, err := h.DB.Collection("customers").UpdateOne(
		context.Background(),
		bson.M{"customerID": customerID, "disabled": false},
		bson.M{"$push": bson.M{"vehicles": vehicle}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to add vehicle")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "Customer not found")
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// DisableCustomer soft-disables the record. Customers are never
// hard-deleted.
func (h *CustomerHandler) DisableCustomer(c *gin.Context) {
	customerID := c.Param("id")

	res, err := h.DB.Collection("customers").UpdateOne(
		context.Background(),
		bson.M{"customerID": customerID},
		bson.M{"$set": bson.M{"disabled": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to disable customer")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
