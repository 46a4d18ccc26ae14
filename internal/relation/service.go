package relation

import (
	"fmt"

	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
)

// AddEdge stores one (kind, from, to) triple. Re-adding an existing edge
// is a no-op returning the stored row.
func AddEdge(kind, fromID, fromType, toID, toType string) (*models.Edge, error) {
	if kind == "" || fromID == "" || toID == "" {
		return nil, fmt.Errorf("kind, from_id and to_id are required")
	}

	var existing models.Edge
	err := database.DB.
		Where("kind = ? AND from_id = ? AND to_id = ?", kind, fromID, toID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}

	edge := models.Edge{
		Kind:     kind,
		FromID:   fromID,
		FromType: fromType,
		ToID:     toID,
		ToType:   toType,
	}
	if err := database.DB.Create(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// RemoveEdge deletes the triple regardless of direction.
func RemoveEdge(kind, fromID, toID string) error {
	return database.DB.
		Where("kind = ? AND ((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?))",
			kind, fromID, toID, toID, fromID).
		Delete(&models.Edge{}).Error
}

// EdgesFor returns every edge of a kind touching the node, whichever side
// it sits on.
func EdgesFor(kind, nodeID string) ([]models.Edge, error) {
	var edges []models.Edge
	err := database.DB.
		Where("kind = ? AND (from_id = ? OR to_id = ?)", kind, nodeID, nodeID).
		Order("created_at").
		Find(&edges).Error
	return edges, err
}
