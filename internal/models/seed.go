package models

// DefaultActivities is the roster the API starts with when its store is empty.
func DefaultActivities() []Activity {
	seed := []struct {
		name, description, schedule string
		max                         int
		emails                      []string
	}{
		{"Chess Club", "Learn strategies and compete in chess tournaments", "Fridays, 3:30 PM - 5:00 PM", 12,
			[]string{"michael@mergington.edu", "daniel@mergington.edu"}},
		{"Programming Class", "Learn programming fundamentals and build software projects", "Tuesdays and Thursdays, 3:30 PM - 4:30 PM", 20,
			[]string{"emma@mergington.edu", "sophia@mergington.edu"}},
		{"Gym Class", "Physical education and sports activities", "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM", 30,
			[]string{"john@mergington.edu", "olivia@mergington.edu"}},
		{"Basketball Team", "Competitive basketball training and inter-school games", "Wednesdays, 4:00 PM - 6:00 PM", 15,
			nil},
		{"Soccer Club", "Outdoor soccer practice and friendly matches", "Tuesdays, 4:00 PM - 5:30 PM", 22,
			[]string{"lucas@mergington.edu"}},
		{"Art Club", "Explore painting, drawing and mixed media", "Thursdays, 3:30 PM - 5:00 PM", 15,
			[]string{"ava@mergington.edu"}},
		{"Drama Club", "Acting, stagecraft and the spring production", "Mondays, 4:00 PM - 5:30 PM", 20,
			nil},
	}

	activities := make([]Activity, 0, len(seed))
	for i, s := range seed {
		a := Activity{
			Name:            s.name,
			Description:     s.description,
			Schedule:        s.schedule,
			MaxParticipants: s.max,
			Position:        i,
		}
		for _, email := range s.emails {
			a.Participants = append(a.Participants, Participant{Email: email})
		}
		activities = append(activities, a)
	}
	return activities
}
