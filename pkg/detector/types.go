package detector

// Raw result shapes produced by the detector engines. The engines themselves
// (mediapipe face mesh, YOLO object classifier, the audio analyzer) live in
// the capture clients; the backend only ever sees these structures.

type FaceResult struct {
	FaceCount     int     `json:"face_count"`
	MultipleFaces bool    `json:"multiple_faces"`
	FaceVisible   bool    `json:"face_visible"`
	Confidence    float64 `json:"confidence"`
}

type GazeResult struct {
	LookingAtScreen bool    `json:"looking_at_screen"`
	Confidence      float64 `json:"confidence"`
}

type ObjectDetection struct {
	Type       string  `json:"type"`
	Severity   string  `json:"severity"` // classifier's own level: high, medium, low
	Confidence float64 `json:"confidence"`
}

type ObjectResult struct {
	Detections []ObjectDetection `json:"detections"`
}

type AudioResult struct {
	SuspiciousSounds bool    `json:"suspicious_sounds"`
	Confidence       float64 `json:"confidence"`
}

type VerificationResult struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Threshold  float64 `json:"threshold"`
}
