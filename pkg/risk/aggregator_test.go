package risk

import (
	"testing"

	"proctoflex-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateNoTriggers(t *testing.T) {
	tests := []struct {
		name    string
		signals []entity.Signal
	}{
		{
			name:    "no signals at all",
			signals: nil,
		},
		{
			name: "zero signal from broken detector",
			signals: []entity.Signal{
				{Modality: entity.ModalityFace, Kind: entity.SignalNone},
			},
		},
		{
			name: "clean tick",
			signals: []entity.Signal{
				{Modality: entity.ModalityFace, Detected: true, Confidence: 0.95},
				{Modality: entity.ModalityGaze, Detected: true, Confidence: 0.9},
				{Modality: entity.ModalityAudio, Detected: true, Confidence: 0.8},
			},
		},
		{
			name: "low severity objects are not alertable",
			signals: []entity.Signal{
				{Modality: entity.ModalityObject, Kind: entity.SignalSuspiciousObject, Detected: true, ObjectSeverity: "low"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, level := Aggregate(tt.signals)
			assert.Empty(t, drafts)
			assert.Equal(t, entity.RiskNone, level)
		})
	}
}

func TestAggregateSingleTriggers(t *testing.T) {
	tests := []struct {
		name         string
		signal       entity.Signal
		wantSeverity entity.Severity
		wantLevel    entity.RiskLevel
	}{
		{
			name:         "face not detected",
			signal:       entity.Signal{Modality: entity.ModalityFace, Kind: entity.SignalFaceNotDetected},
			wantSeverity: entity.SeverityMedium,
			wantLevel:    entity.RiskMedium,
		},
		{
			name:         "multiple faces",
			signal:       entity.Signal{Modality: entity.ModalityFace, Kind: entity.SignalMultipleFaces, Detected: true},
			wantSeverity: entity.SeverityHigh,
			wantLevel:    entity.RiskHigh,
		},
		{
			name:         "verification failed",
			signal:       entity.Signal{Modality: entity.ModalityFace, Kind: entity.SignalFaceVerificationFailed, Detected: true},
			wantSeverity: entity.SeverityHigh,
			wantLevel:    entity.RiskHigh,
		},
		{
			name:         "gaze away",
			signal:       entity.Signal{Modality: entity.ModalityGaze, Kind: entity.SignalGazeAway, Detected: true},
			wantSeverity: entity.SeverityMedium,
			wantLevel:    entity.RiskMedium,
		},
		{
			name:         "high severity object",
			signal:       entity.Signal{Modality: entity.ModalityObject, Kind: entity.SignalSuspiciousObject, Detected: true, ObjectSeverity: "high"},
			wantSeverity: entity.SeverityCritical,
			wantLevel:    entity.RiskCritical,
		},
		{
			name:         "medium severity object",
			signal:       entity.Signal{Modality: entity.ModalityObject, Kind: entity.SignalSuspiciousObject, Detected: true, ObjectSeverity: "medium"},
			wantSeverity: entity.SeverityHigh,
			wantLevel:    entity.RiskHigh,
		},
		{
			name:         "suspicious audio",
			signal:       entity.Signal{Modality: entity.ModalityAudio, Kind: entity.SignalSuspiciousAudio, Detected: true},
			wantSeverity: entity.SeverityMedium,
			wantLevel:    entity.RiskMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, level := Aggregate([]entity.Signal{tt.signal})
			require.Len(t, drafts, 1)
			assert.Equal(t, tt.signal.Kind, drafts[0].Type)
			assert.Equal(t, tt.wantSeverity, drafts[0].Severity)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestAggregateCombinedTicks(t *testing.T) {
	// face_not_detected (0.3) + gaze_away (0.4): mean 0.35 -> medium.
	drafts, level := Aggregate([]entity.Signal{
		{Modality: entity.ModalityFace, Kind: entity.SignalFaceNotDetected},
		{Modality: entity.ModalityGaze, Kind: entity.SignalGazeAway, Detected: true},
	})
	require.Len(t, drafts, 2)
	assert.Equal(t, entity.RiskMedium, level)

	// multiple_faces (0.8) + object high (0.9): mean 0.85 -> critical.
	drafts, level = Aggregate([]entity.Signal{
		{Modality: entity.ModalityFace, Kind: entity.SignalMultipleFaces, Detected: true},
		{Modality: entity.ModalityObject, Kind: entity.SignalSuspiciousObject, Detected: true, ObjectSeverity: "high"},
	})
	require.Len(t, drafts, 2)
	assert.Equal(t, entity.RiskCritical, level)

	// multiple_faces (0.8) + audio (0.5): mean 0.65, capped at the high
	// ceiling since nothing critical was observed.
	drafts, level = Aggregate([]entity.Signal{
		{Modality: entity.ModalityFace, Kind: entity.SignalMultipleFaces, Detected: true},
		{Modality: entity.ModalityAudio, Kind: entity.SignalSuspiciousAudio, Detected: true},
	})
	require.Len(t, drafts, 2)
	assert.Equal(t, entity.RiskHigh, level)
}

func TestAggregateIsDeterministic(t *testing.T) {
	signals := []entity.Signal{
		{Modality: entity.ModalityFace, Kind: entity.SignalMultipleFaces, Detected: true},
		{Modality: entity.ModalityAudio, Kind: entity.SignalSuspiciousAudio, Detected: true},
		{Modality: entity.ModalityGaze, Kind: entity.SignalGazeAway, Detected: true},
	}

	firstDrafts, firstLevel := Aggregate(signals)
	for i := 0; i < 50; i++ {
		drafts, level := Aggregate(signals)
		assert.Equal(t, firstDrafts, drafts)
		assert.Equal(t, firstLevel, level)
	}
}
