package questreward

import (
	"github.com/fatih/structs"
	"github.com/inkquest-lab/backend/internal/entity"
)

// ToRequirementData converts a typed requirement payload into the map stored
// on the quest row. The structs tags mirror the mapstructure ones so a
// payload round-trips through the database unchanged.
func ToRequirementData(v any) entity.Map {
	s := structs.New(v)
	s.TagName = "structs"
	return entity.Map(s.Map())
}
