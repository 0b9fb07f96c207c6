// Package damage holds the per-part damage record and its state machine.
package damage

import "fmt"

// Kind is the failure category carried by a record.
type Kind int

const (
	KindNone Kind = iota
	KindEngineGimbal
	KindEngineCoolant
	KindParachute
	KindDecoupler
	KindDockingPort
	KindLeak
	KindIntake
	KindWheel
	KindEnvironmentSensor
	KindSolarPanel
	KindGenerator
	KindExplosion
	KindElectrical
)

var kindNames = [...]string{
	KindNone:              "none",
	KindEngineGimbal:      "engine-gimbal",
	KindEngineCoolant:     "engine-coolant",
	KindParachute:         "parachute",
	KindDecoupler:         "decoupler",
	KindDockingPort:       "docking-port",
	KindLeak:              "leak",
	KindIntake:            "intake",
	KindWheel:             "wheel",
	KindEnvironmentSensor: "environment-sensor",
	KindSolarPanel:        "solar-panel",
	KindGenerator:         "generator",
	KindExplosion:         "explosion",
	KindElectrical:        "electrical",
}

// Kinds lists every failure category except KindNone.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := KindEngineGimbal; int(k) < len(kindNames); k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name back to its value.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindNone, fmt.Errorf("unknown damage kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid damage kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
