package ops

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Kind identifies a staged adjustment.
type Kind string

// Adjustment kinds.
const (
	Brightness  Kind = "brightness"
	Contrast    Kind = "contrast"
	Saturation  Kind = "saturation"
	Sharpness   Kind = "sharpness"
	ChannelGain Kind = "channel_gain"
	Blur        Kind = "blur"
	Noise       Kind = "noise"
)

// Blur and noise variants.
const (
	BlurGaussian = "gaussian"
	BlurBox      = "box"
	BlurMedian   = "median"

	NoiseGaussian   = "gaussian"
	NoiseSaltPepper = "salt_pepper"
	NoiseSpeckle    = "speckle"
)

// Params carries the parameters of every adjustment kind. Each kind reads only
// the fields it needs: Factor for brightness, contrast, saturation and
// sharpness; Red, Green and Blue for channel gain; Variant and Intensity for
// blur and noise.
type Params struct {
	Factor    float64 `json:"factor"`
	Red       float64 `json:"red"`
	Green     float64 `json:"green"`
	Blue      float64 `json:"blue"`
	Variant   string  `json:"variant"`
	Intensity float64 `json:"intensity"`
}

// ParamType is the kind of UI control a parameter maps to.
type ParamType string

const (
	ParamRange  ParamType = "range"
	ParamSelect ParamType = "select"
)

// Param describes one slider or selector of an adjustment.
type Param struct {
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	Type       ParamType `json:"type"`
	Min        float64   `json:"min,omitempty"`
	Max        float64   `json:"max,omitempty"`
	Step       float64   `json:"step,omitempty"`
	DefaultVal float64   `json:"default,omitempty"`
	Options    []string  `json:"options,omitempty"`
	DefaultOpt string    `json:"default_option,omitempty"`
}

// Descriptor lists the parameters of one adjustment kind.
type Descriptor struct {
	Kind   Kind    `json:"kind"`
	Label  string  `json:"label"`
	Params []Param `json:"params"`
}

func factorParam(label string) Param {
	return Param{Key: "factor", Label: label, Type: ParamRange, Min: 0, Max: 2, Step: 0.01, DefaultVal: 1}
}

var descriptors = map[Kind]Descriptor{
	Brightness: {Kind: Brightness, Label: "Brightness", Params: []Param{factorParam("Brightness")}},
	Contrast:   {Kind: Contrast, Label: "Contrast", Params: []Param{factorParam("Contrast")}},
	Saturation: {Kind: Saturation, Label: "Saturation", Params: []Param{factorParam("Saturation")}},
	Sharpness:  {Kind: Sharpness, Label: "Sharpness", Params: []Param{factorParam("Sharpness")}},
	ChannelGain: {Kind: ChannelGain, Label: "Color Balance", Params: []Param{
		{Key: "red", Label: "Red", Type: ParamRange, Min: 0, Max: 2, Step: 0.01, DefaultVal: 1},
		{Key: "green", Label: "Green", Type: ParamRange, Min: 0, Max: 2, Step: 0.01, DefaultVal: 1},
		{Key: "blue", Label: "Blue", Type: ParamRange, Min: 0, Max: 2, Step: 0.01, DefaultVal: 1},
	}},
	Blur: {Kind: Blur, Label: "Blur", Params: []Param{
		{Key: "variant", Label: "Type", Type: ParamSelect,
			Options: []string{BlurGaussian, BlurBox, BlurMedian}, DefaultOpt: BlurGaussian},
		{Key: "intensity", Label: "Intensity", Type: ParamRange, Min: 0, Max: 10, Step: 0.1, DefaultVal: 0},
	}},
	Noise: {Kind: Noise, Label: "Noise", Params: []Param{
		{Key: "variant", Label: "Type", Type: ParamSelect,
			Options: []string{NoiseGaussian, NoiseSaltPepper, NoiseSpeckle}, DefaultOpt: NoiseGaussian},
		{Key: "intensity", Label: "Intensity", Type: ParamRange, Min: 0, Max: 1, Step: 0.01, DefaultVal: 0.1},
	}},
}

// ParseKind validates an adjustment name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := descriptors[k]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAdjustment, s)
	}
	return k, nil
}

// Describe returns the descriptor of kind.
func Describe(kind Kind) (Descriptor, error) {
	d, ok := descriptors[kind]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownAdjustment, kind)
	}
	return d, nil
}

// Descriptors returns every adjustment descriptor sorted by kind.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Neutral returns the parameters a reset restores for kind: factor and gains
// of 1.0, Gaussian blur with zero intensity, Gaussian noise at 0.1.
func Neutral(kind Kind) (Params, error) {
	d, err := Describe(kind)
	if err != nil {
		return Params{}, err
	}
	var p Params
	for _, param := range d.Params {
		switch param.Key {
		case "factor":
			p.Factor = param.DefaultVal
		case "red":
			p.Red = param.DefaultVal
		case "green":
			p.Green = param.DefaultVal
		case "blue":
			p.Blue = param.DefaultVal
		case "variant":
			p.Variant = param.DefaultOpt
		case "intensity":
			p.Intensity = param.DefaultVal
		}
	}
	return p, nil
}

// Validate checks p against the descriptor of kind. Values must be finite and
// within the slider range, and variants must be one of the listed options.
func (p Params) Validate(kind Kind) error {
	d, err := Describe(kind)
	if err != nil {
		return err
	}
	for _, param := range d.Params {
		if param.Type == ParamSelect {
			if !slices.Contains(param.Options, p.Variant) {
				return fmt.Errorf("%w: %s %s must be one of %v", ErrInvalidParameter, kind, param.Key, param.Options)
			}
			continue
		}
		v := p.value(param.Key)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < param.Min || v > param.Max {
			return fmt.Errorf("%w: %s %s = %v, must be in [%v,%v]",
				ErrInvalidParameter, kind, param.Key, v, param.Min, param.Max)
		}
	}
	return nil
}

func (p Params) value(key string) float64 {
	switch key {
	case "factor":
		return p.Factor
	case "red":
		return p.Red
	case "green":
		return p.Green
	case "blue":
		return p.Blue
	case "intensity":
		return p.Intensity
	}
	return 0
}
