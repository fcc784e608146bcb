package presets

import "strings"

// Request is the loosely structured wizard input. Every field is optional.
type Request struct {
	ProjectBlueprint   *string `json:"project_blueprint,omitempty"`
	SoundProfile       *string `json:"sound_profile,omitempty"`
	DeliveryAndControl *string `json:"delivery_and_control,omitempty"`
	InstrumentalOnly   *bool   `json:"instrumental_only,omitempty"`
	UserNarrative      *string `json:"user_narrative,omitempty"`
}

// ResolvedRequest is the post-default selection echoed back to callers.
type ResolvedRequest struct {
	ProjectBlueprint   BlueprintID `json:"project_blueprint"`
	SoundProfile       ProfileID   `json:"sound_profile"`
	DeliveryAndControl DeliveryID  `json:"delivery_and_control"`
	InstrumentalOnly   *bool       `json:"instrumental_only,omitempty"`
	UserNarrative      string      `json:"user_narrative,omitempty"`
}

// Resolved is a ResolvedRequest plus the three selected records.
type Resolved struct {
	Request   ResolvedRequest
	Blueprint Blueprint
	Profile   Profile
	Delivery  Delivery
	// Defaulted lists the axes whose identifier was absent or unrecognized.
	Defaulted []Axis
}

// InstrumentalOverride reports whether the caller explicitly forced instrumental output.
func (r Resolved) InstrumentalOverride() bool {
	return r.Request.InstrumentalOnly != nil && *r.Request.InstrumentalOnly
}

// ParseBlueprint matches raw against the blueprint ids.
func ParseBlueprint(raw string) (BlueprintID, bool) {
	id := BlueprintID(normalizeID(raw))
	_, ok := blueprints[id]
	return id, ok
}

// ParseProfile matches raw against the profile ids.
func ParseProfile(raw string) (ProfileID, bool) {
	id := ProfileID(normalizeID(raw))
	_, ok := profiles[id]
	return id, ok
}

// ParseDelivery matches raw against the delivery ids.
func ParseDelivery(raw string) (DeliveryID, bool) {
	id := DeliveryID(normalizeID(raw))
	_, ok := deliveries[id]
	return id, ok
}

// Resolve selects one record per axis. Absent or unknown identifiers fall
// back to the axis default without error.
func Resolve(req Request) Resolved {
	var out Resolved

	blueprintID := DefaultBlueprint
	if id, ok := parsePtr(req.ProjectBlueprint, ParseBlueprint); ok {
		blueprintID = id
	} else {
		out.Defaulted = append(out.Defaulted, AxisProjectBlueprint)
	}

	profileID := DefaultProfile
	if id, ok := parsePtr(req.SoundProfile, ParseProfile); ok {
		profileID = id
	} else {
		out.Defaulted = append(out.Defaulted, AxisSoundProfile)
	}

	deliveryID := DefaultDelivery
	if id, ok := parsePtr(req.DeliveryAndControl, ParseDelivery); ok {
		deliveryID = id
	} else {
		out.Defaulted = append(out.Defaulted, AxisDeliveryAndControl)
	}

	out.Blueprint, _ = LookupBlueprint(blueprintID)
	out.Profile, _ = LookupProfile(profileID)
	out.Delivery, _ = LookupDelivery(deliveryID)

	out.Request = ResolvedRequest{
		ProjectBlueprint:   blueprintID,
		SoundProfile:       profileID,
		DeliveryAndControl: deliveryID,
	}
	if req.InstrumentalOnly != nil {
		v := *req.InstrumentalOnly
		out.Request.InstrumentalOnly = &v
	}
	if req.UserNarrative != nil {
		out.Request.UserNarrative = strings.TrimSpace(*req.UserNarrative)
	}

	return out
}

// Echo converts a resolved request back into a Request. Resolving the echo
// yields the same selection.
func (r ResolvedRequest) Echo() Request {
	blueprint := string(r.ProjectBlueprint)
	profile := string(r.SoundProfile)
	delivery := string(r.DeliveryAndControl)
	req := Request{
		ProjectBlueprint:   &blueprint,
		SoundProfile:       &profile,
		DeliveryAndControl: &delivery,
	}
	if r.InstrumentalOnly != nil {
		v := *r.InstrumentalOnly
		req.InstrumentalOnly = &v
	}
	if r.UserNarrative != "" {
		n := r.UserNarrative
		req.UserNarrative = &n
	}
	return req
}

func parsePtr[T any](raw *string, parse func(string) (T, bool)) (T, bool) {
	if raw == nil {
		var zero T
		return zero, false
	}
	return parse(*raw)
}

func normalizeID(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
