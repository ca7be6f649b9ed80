package synchronizer

import (
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/debatify/debatify-go/model"
	Logger "github.com/debatify/debatify-go/utils/log"
)

// EntitySnapshot is what subscribers receive: the current state plus a deep
// copy of the entity so consumers never alias synchronizer-owned memory.
type EntitySnapshot struct {
	State        State         `json:"state"`
	Entity       *model.Entity `json:"entity,omitempty"`
	StanceLocked string        `json:"stanceLocked,omitempty"`
	// Message carries user-facing text for PasscodeRequired ("Incorrect
	// passcode...") and Failed states. Empty otherwise.
	Message string `json:"message,omitempty"`
}

// Topic names the event bus stream for one entity.
func Topic(t model.EntityType, id string) string {
	return fmt.Sprintf("entity.%s.%s", t, id)
}

func deepCopyEntity(src *model.Entity) *model.Entity {
	if src == nil {
		return nil
	}
	dst := &model.Entity{}
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on type mismatch, which cannot happen for
		// identical types; log and fall back to the shallow copy.
		Logger.LogV2.Errorf("entity deep copy failed:", err)
		shallow := *src
		return &shallow
	}
	return dst
}
