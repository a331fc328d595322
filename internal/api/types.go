package api

// ArrayInfo describes a stored array.
type ArrayInfo struct {
	ID        string   `json:"id"`
	Object    string   `json:"object"`
	NX        uint     `json:"nx"`
	NY        uint     `json:"ny"`
	NC        uint     `json:"nc"`
	Elements  int      `json:"elements"`
	Bytes     int      `json:"bytes"`
	Stats     Stats    `json:"stats"`
	CreatedAt int64    `json:"created_at"`
	Source    string   `json:"source"`
	Channels  []Stats  `json:"channels,omitempty"`
	Labels    []string `json:"labels,omitempty"`
}

// Stats summarises the finite samples of an array or channel. NaN and
// infinite samples are counted but excluded from min, max and mean.
type Stats struct {
	Min       *float64 `json:"min"`
	Max       *float64 `json:"max"`
	Mean      *float64 `json:"mean"`
	NonFinite int      `json:"non_finite"`
}

// CreateArrayRequest is the JSON form of an array upload.
type CreateArrayRequest struct {
	NX      uint      `json:"nx"`
	NY      uint      `json:"ny"`
	NC      uint      `json:"nc"`
	Samples []float32 `json:"samples"`
	Labels  []string  `json:"labels,omitempty"`
}

type ArrayList struct {
	Object string      `json:"object"`
	Data   []ArrayInfo `json:"data"`
}

type DeleteArrayResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
