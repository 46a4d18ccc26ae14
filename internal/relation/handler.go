package relation

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wanderkit/cms/internal/response"
)

type EdgeRequest struct {
	Kind     string `json:"kind"`
	FromID   string `json:"from_id"`
	FromType string `json:"from_type"`
	ToID     string `json:"to_id"`
	ToType   string `json:"to_type"`
}

func AddEdgeHandler(c *fiber.Ctx) error {
	var body EdgeRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Kind == "" || body.FromID == "" || body.ToID == "" {
		return response.ValidationError(c, map[string]string{
			"kind":    "kind is required",
			"from_id": "from_id is required",
			"to_id":   "to_id is required",
		})
	}

	edge, err := AddEdge(body.Kind, body.FromID, body.FromType, body.ToID, body.ToType)
	if err != nil {
		return response.InternalError(c, "Failed to create relation")
	}

	return response.Created(c, edge, "Relation created successfully")
}

func RemoveEdgeHandler(c *fiber.Ctx) error {
	var body EdgeRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Kind == "" || body.FromID == "" || body.ToID == "" {
		return response.ValidationError(c, map[string]string{
			"kind":    "kind is required",
			"from_id": "from_id is required",
			"to_id":   "to_id is required",
		})
	}

	if err := RemoveEdge(body.Kind, body.FromID, body.ToID); err != nil {
		return response.InternalError(c, "Failed to remove relation")
	}

	return response.NoContent(c)
}

func ListEdgesHandler(c *fiber.Ctx) error {
	kind := c.Params("kind")
	nodeID := c.Params("node_id")

	edges, err := EdgesFor(kind, nodeID)
	if err != nil {
		return response.InternalError(c, "Failed to fetch relations")
	}

	return response.Success(c, edges, "Relations retrieved successfully")
}
