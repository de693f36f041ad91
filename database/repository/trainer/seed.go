package trainerRepo

import (
	"time"

	"fitbook/models"
)

// SampleTrainers is the development catalog loaded by cmd/seed and by STORE_DRIVER=memory.
func SampleTrainers(now time.Time) []models.Trainer {
	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	return []models.Trainer{
		{
			Name:            "Alex Rodriguez",
			Email:           "alex.rodriguez@fitness.com",
			Specialization:  "Weight Loss",
			Bio:             "Weight loss specialist and certified nutritionist.",
			HourlyRate:      50,
			ExperienceYears: 8,
			Certifications:  []string{"ACE Certified Personal Trainer", "Certified Nutrition Specialist", "CPR/AED Certified"},
			Availability:    weekdays,
			IsVerified:      true,
			Rating:          4.8,
			TotalReviews:    45,
			CreatedAt:       now,
		},
		{
			Name:            "Sarah Johnson",
			Email:           "sarah.johnson@fitness.com",
			Specialization:  "Muscle Gain",
			Bio:             "Bodybuilding coach and strength training expert.",
			HourlyRate:      60,
			ExperienceYears: 10,
			Certifications:  []string{"NASM Certified", "Strength & Conditioning Specialist", "Sports Nutrition Certified"},
			Availability:    []string{"Monday", "Wednesday", "Friday", "Saturday"},
			IsVerified:      true,
			Rating:          4.9,
			TotalReviews:    67,
			CreatedAt:       now,
		},
		{
			Name:            "Maya Patel",
			Email:           "maya.patel@fitness.com",
			Specialization:  "Yoga",
			Bio:             "Vinyasa and Hatha yoga instructor.",
			HourlyRate:      45,
			ExperienceYears: 6,
			Certifications:  []string{"200-Hour Yoga Teacher Training", "Meditation Instructor", "Prenatal Yoga Certified"},
			Availability:    []string{"Tuesday", "Thursday", "Saturday", "Sunday"},
			IsVerified:      true,
			Rating:          4.7,
			TotalReviews:    38,
			CreatedAt:       now,
		},
		{
			Name:            "David Chen",
			Email:           "david.chen@fitness.com",
			Specialization:  "Cardio & Endurance",
			Bio:             "Marathon runner and endurance coach.",
			HourlyRate:      55,
			ExperienceYears: 7,
			Certifications:  []string{"RRCA Running Coach", "Endurance Training Specialist", "CPR Certified"},
			Availability:    weekdays,
			IsVerified:      true,
			Rating:          4.6,
			TotalReviews:    29,
			CreatedAt:       now,
		},
	}
}
