package timeline

import "fmt"

// Role identifies one of the nine scalar transform channels.
type Role uint8

const (
	RoleTranslationX Role = iota
	RoleTranslationY
	RoleTranslationZ
	RoleRotationRoll
	RoleRotationPitch
	RoleRotationYaw
	RoleScaleX
	RoleScaleY
	RoleScaleZ

	NumRoles = 9
)

var roleNames = [NumRoles]string{
	"translation_x",
	"translation_y",
	"translation_z",
	"rotation_roll",
	"rotation_pitch",
	"rotation_yaw",
	"scale_x",
	"scale_y",
	"scale_z",
}

// Roles returns all roles in channel index order.
func Roles() []Role {
	roles := make([]Role, NumRoles)
	for i := range roles {
		roles[i] = Role(i)
	}
	return roles
}

func (r Role) Valid() bool {
	return r < NumRoles
}

// DefaultValue is what an empty channel evaluates to.
func (r Role) DefaultValue() float64 {
	if r >= RoleScaleX && r <= RoleScaleZ {
		return 1
	}
	return 0
}

func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("role(%d)", uint8(r))
	}
	return roleNames[r]
}

func ParseRole(s string) (Role, error) {
	for i, name := range roleNames {
		if name == s {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChannelRole, s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelRole, uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
