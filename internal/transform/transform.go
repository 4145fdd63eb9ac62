package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is a 3D vector in world units.
type Vector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Rotator holds rotation as Euler angles in degrees.
// Roll turns about X, Pitch about Y, Yaw about Z.
type Rotator struct {
	Roll  float64 `yaml:"roll"`
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
}

// Quat is a unit quaternion (x, y, z, w).
type Quat struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	W float64 `yaml:"w"`
}

// Transform is translation, rotation and scale of an entity.
type Transform struct {
	Translation Vector  `yaml:"translation"`
	Rotation    Rotator `yaml:"rotation"`
	Scale       Vector  `yaml:"scale"`
}

// Identity returns a transform at the origin with unit scale.
func Identity() Transform {
	return Transform{Scale: Vector{X: 1, Y: 1, Z: 1}}
}

// Components flattens the transform in channel order:
// translation XYZ, roll, pitch, yaw, scale XYZ.
func (t Transform) Components() [9]float64 {
	return [9]float64{
		t.Translation.X, t.Translation.Y, t.Translation.Z,
		t.Rotation.Roll, t.Rotation.Pitch, t.Rotation.Yaw,
		t.Scale.X, t.Scale.Y, t.Scale.Z,
	}
}

// FromComponents is the inverse of Components.
func FromComponents(c [9]float64) Transform {
	return Transform{
		Translation: Vector{X: c[0], Y: c[1], Z: c[2]},
		Rotation:    Rotator{Roll: c[3], Pitch: c[4], Yaw: c[5]},
		Scale:       Vector{X: c[6], Y: c[7], Z: c[8]},
	}
}

// Normalized returns q scaled to unit length. A zero quaternion becomes identity.
func (q Quat) Normalized() Quat {
	return fromMGL(q.mgl().Normalize())
}

func (q Quat) mgl() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

func fromMGL(q mgl64.Quat) Quat {
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// Rotator converts the quaternion to Euler angles in degrees.
func (q Quat) Rotator() Rotator {
	q = q.Normalized()

	sinRollCosPitch := 2 * (q.W*q.X + q.Y*q.Z)
	cosRollCosPitch := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll := math.Atan2(sinRollCosPitch, cosRollCosPitch)

	sinPitch := 2 * (q.W*q.Y - q.Z*q.X)
	var pitch float64
	if math.Abs(sinPitch) >= 1 {
		// gimbal lock
		pitch = math.Copysign(math.Pi/2, sinPitch)
	} else {
		pitch = math.Asin(sinPitch)
	}

	sinYawCosPitch := 2 * (q.W*q.Z + q.X*q.Y)
	cosYawCosPitch := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw := math.Atan2(sinYawCosPitch, cosYawCosPitch)

	return Rotator{
		Roll:  mgl64.RadToDeg(roll),
		Pitch: mgl64.RadToDeg(pitch),
		Yaw:   mgl64.RadToDeg(yaw),
	}
}

// Quat converts Euler angles back to a quaternion (yaw, then pitch, then roll).
func (r Rotator) Quat() Quat {
	return fromMGL(mgl64.AnglesToQuat(
		mgl64.DegToRad(r.Yaw), mgl64.DegToRad(r.Pitch), mgl64.DegToRad(r.Roll), mgl64.ZYX,
	))
}
