package utils

import (
	"strings"

	"AfyaCare/models"
)

// AnalyzeVitals flags out-of-range readings on a triage record. Zero-valued
// readings are treated as not captured and skipped.
func AnalyzeVitals(t *models.TriageRecord) string {
	var alerts []string

	if t.TemperatureC > 0 {
		if t.TemperatureC >= 38.0 {
			alerts = append(alerts, "Fever")
		} else if t.TemperatureC < 35.0 {
			alerts = append(alerts, "Hypothermia")
		}
	}
	if t.HeartRateBPM > 0 {
		if t.HeartRateBPM > 100 {
			alerts = append(alerts, "Tachycardia")
		} else if t.HeartRateBPM < 60 {
			alerts = append(alerts, "Bradycardia")
		}
	}
	if t.RespiratoryRateBPM > 0 {
		if t.RespiratoryRateBPM > 20 {
			alerts = append(alerts, "Tachypnea")
		} else if t.RespiratoryRateBPM < 12 {
			alerts = append(alerts, "Bradypnea")
		}
	}
	if t.SystolicBP > 0 && t.DiastolicBP > 0 {
		if t.SystolicBP >= 140 || t.DiastolicBP >= 90 {
			alerts = append(alerts, "High blood pressure")
		} else if t.SystolicBP < 90 {
			alerts = append(alerts, "Low blood pressure")
		}
	}
	if t.SpO2Percent > 0 && t.SpO2Percent < 92.0 {
		alerts = append(alerts, "Low oxygen saturation")
	}
	if bmi := t.CalculateBMI(); bmi != nil {
		if *bmi >= 30.0 {
			alerts = append(alerts, "Obese (BMI)")
		} else if *bmi < 18.5 {
			alerts = append(alerts, "Underweight (BMI)")
		}
	}

	return strings.Join(alerts, "; ")
}
