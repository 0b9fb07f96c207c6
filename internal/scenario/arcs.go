package scenario

import "partfail-sim/internal/vessel"

func fuel(name string, amount float64) vessel.Resource {
	return vessel.Resource{Name: name, Amount: amount, Max: amount}
}

// BuiltIn returns predefined craft with their operator scripts.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		"orbiter": {
			Name:        "Orbiter",
			Description: "A two stage orbiter on a long coast; the crew patches whatever breaks.",
			Vessel: VesselSpec{
				ID:   "orbiter-1",
				Name: "Orbiter I",
				Parts: []PartSpec{
					{ID: "pod", Title: "Command Pod", Tags: []string{"command"}, Resources: []vessel.Resource{fuel(vessel.ElectricCharge, 50)}, Networks: []string{"main-bus"}},
					{ID: "chute", Title: "Parachute", Tags: []string{"parachute"}},
					{ID: "battery", Title: "Battery Bank", Resources: []vessel.Resource{fuel(vessel.ElectricCharge, 400)}, Networks: []string{"main-bus"}},
					{ID: "panel-a", Title: "Solar Panel A", Tags: []string{"deployable-solar-panel"}, Networks: []string{"main-bus"}},
					{ID: "panel-b", Title: "Solar Panel B", Tags: []string{"deployable-solar-panel"}, Networks: []string{"main-bus"}},
					{ID: "tank", Title: "Fuel Tank", Resources: []vessel.Resource{fuel("LiquidFuel", 360), fuel("Oxidizer", 440)}},
					{ID: "engine", Title: "Main Engine", Tags: []string{"engine", "engine-gimbal"}},
					{ID: "decoupler", Title: "Stage Decoupler", Tags: []string{"decoupler"}},
				},
			},
			Phases: []Phase{
				{
					Name:        "coast",
					Description: "Quiet coast; failures accumulate.",
					Triggers:    []Trigger{{Event: EventPartsDamaged, Value: 2, Next: "eva"}},
				},
				{
					Name:        "eva",
					Description: "An engineer goes outside and fixes the tank and the panels.",
					Actions: []Action{
						{After: 30, Type: ActionRepair, Part: "tank", Distance: 1.5},
						{After: 60, Type: ActionRepair, Part: "panel-a", Distance: 1},
						{After: 60, Type: ActionRepair, Part: "panel-b", Distance: 1},
					},
					Triggers: []Trigger{{Event: EventTimeElapsed, Value: 120, Next: "coast"}},
				},
			},
		},
		"rover": {
			Name:        "Rover",
			Description: "A surface rover on a long traverse.",
			Vessel: VesselSpec{
				ID:   "rover-1",
				Name: "Rover",
				Parts: []PartSpec{
					{ID: "chassis", Title: "Rover Body", Tags: []string{"command"}, Resources: []vessel.Resource{fuel(vessel.ElectricCharge, 120)}, Networks: []string{"drive-bus"}},
					{ID: "wheel-fl", Title: "Wheel FL", Tags: []string{"wheel"}, Networks: []string{"drive-bus"}},
					{ID: "wheel-fr", Title: "Wheel FR", Tags: []string{"wheel"}, Networks: []string{"drive-bus"}},
					{ID: "wheel-rl", Title: "Wheel RL", Tags: []string{"wheel"}, Networks: []string{"drive-bus"}},
					{ID: "wheel-rr", Title: "Wheel RR", Tags: []string{"wheel"}, Networks: []string{"drive-bus"}},
					{ID: "rtg", Title: "RTG", Tags: []string{"generator"}, Networks: []string{"drive-bus"}},
					{ID: "thermometer", Title: "Thermometer", Tags: []string{"environment-sensor"}},
				},
			},
			Phases: []Phase{
				{
					Name:     "drive",
					Triggers: []Trigger{{Event: EventTimeElapsed, Value: 300, Next: "service"}},
				},
				{
					Name:        "service",
					Description: "Stop and service the wheels.",
					Actions: []Action{
						{After: 10, Type: ActionRepair, Part: "wheel-fl", Distance: 0.5},
						{After: 10, Type: ActionRepair, Part: "wheel-fr", Distance: 0.5},
						{After: 20, Type: ActionRepair, Part: "wheel-rl", Distance: 0.5},
						{After: 20, Type: ActionRepair, Part: "wheel-rr", Distance: 0.5},
					},
					Triggers: []Trigger{{Event: EventTimeElapsed, Value: 60, Next: "drive"}},
				},
			},
		},
		"lander": {
			Name:        "Lander",
			Description: "A lander whose generator shorts out early and takes the bus with it.",
			Vessel: VesselSpec{
				ID:   "lander-1",
				Name: "Lander",
				Parts: []PartSpec{
					{ID: "cabin", Title: "Lander Can", Tags: []string{"command"}, Networks: []string{"bus"}},
					{ID: "fuel-cell", Title: "Fuel Cell", Tags: []string{"generator"}, Networks: []string{"bus"}},
					{ID: "port", Title: "Docking Port", Tags: []string{"docking-node"}, Networks: []string{"bus"}},
					{ID: "intake", Title: "Air Intake", Tags: []string{"resource-intake"}},
					{ID: "tank", Title: "Monoprop Tank", Resources: []vessel.Resource{fuel("MonoPropellant", 75)}},
					{ID: "engine", Title: "Descent Engine", Tags: []string{"engine"}},
				},
			},
			Phases: []Phase{
				{
					Name:        "descent",
					Description: "The fuel cell is sabotaged on the way down.",
					Actions:     []Action{{After: 5, Type: ActionFail, Part: "fuel-cell", Kind: "generator"}},
					Triggers:    []Trigger{{Event: EventTimeElapsed, Value: 240, Next: "surface"}},
				},
				{
					Name:        "surface",
					Description: "Repairs on the surface.",
					Actions:     []Action{{After: 30, Type: ActionRepair, Part: "fuel-cell", Distance: 1}},
				},
			},
		},
	}
}
