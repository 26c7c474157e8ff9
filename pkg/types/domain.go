package types

// Model represents a discoverable OpenVINO model directory on disk.
type Model struct {
	// Stable identifier for the model.
	// example: tinyllama-1.1b-int4
	ID string `json:"id" example:"tinyllama-1.1b-int4"`
	// Human-friendly name.
	// example: TinyLlama 1.1B (INT4)
	Name string `json:"name" example:"TinyLlama 1.1B (INT4)"`
	// Absolute path to the model directory (contains openvino_model.xml).
	// example: /home/user/models/tinyllama-1.1b-int4
	Path string `json:"path" example:"/home/user/models/tinyllama-1.1b-int4"`
	// Device selector the model is served on (CPU, GPU, NPU).
	// example: CPU
	Device string `json:"device,omitempty" example:"CPU"`
}
