// ABOUTME: Benchmark scenarios for portfolio matching
// ABOUTME: Each scenario pairs a portfolio with job posts and their known relevant projects

package matching

// Scenario is a portfolio plus job posts with ground-truth relevance
type Scenario struct {
	ID          string
	Name        string
	Description string
	Projects    []Document
	Jobs        []Job
}

// Document is a portfolio project as the matcher sees it: name and description
type Document struct {
	ID   string
	Text string
}

// Job is a job post and the project IDs a good match should surface
type Job struct {
	ID       string
	Text     string
	Relevant []string
}

// ScenarioByID returns the built-in scenario with the given ID
func ScenarioByID(id string) (Scenario, bool) {
	for _, s := range DefaultScenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// DefaultScenarios returns the built-in benchmark scenarios
func DefaultScenarios() []Scenario {
	return []Scenario{
		mixedPortfolio(),
		nearMisses(),
	}
}

func mixedPortfolio() Scenario {
	return Scenario{
		ID:          "mixed",
		Name:        "Mixed portfolio",
		Description: "Clearly separated domains; each job has one obvious match.",
		Projects: []Document{
			{ID: "fleet", Text: "Fleet Tracker: real-time vehicle tracking dashboard built with React, TypeScript, Go and PostgreSQL, with live maps and route history."},
			{ID: "habit", Text: "Habit Garden: Flutter mobile app for iOS and Android with offline sync, push notifications and Firebase authentication."},
			{ID: "churn", Text: "Churn Predictor: Python machine learning pipeline using scikit-learn and pandas to predict subscription cancellations."},
			{ID: "shop", Text: "Maker Market: Shopify storefront with custom Liquid theme, Stripe checkout and inventory sync."},
			{ID: "infra", Text: "Cluster Ops: Terraform and Kubernetes setup on AWS with GitHub Actions CI/CD and Prometheus monitoring."},
		},
		Jobs: []Job{
			{ID: "mobile", Text: "Looking for a Flutter developer to build a cross-platform mobile app with offline mode and push notifications.", Relevant: []string{"habit"}},
			{ID: "dashboard", Text: "Need a React developer for an analytics dashboard with maps and real-time charts backed by a Go API.", Relevant: []string{"fleet"}},
			{ID: "ml", Text: "We want a data scientist to build a Python model that predicts customer churn from usage data.", Relevant: []string{"churn"}},
			{ID: "devops", Text: "Set up Kubernetes on AWS with Terraform and a CI/CD pipeline; monitoring experience required.", Relevant: []string{"infra"}},
		},
	}
}

func nearMisses() Scenario {
	return Scenario{
		ID:          "near-misses",
		Name:        "Near misses",
		Description: "Overlapping stacks; jobs have more than one relevant project.",
		Projects: []Document{
			{ID: "crm", Text: "Client CRM: Django web app with PostgreSQL, REST API and a React admin dashboard for a consulting firm."},
			{ID: "booking", Text: "Studio Booking: Next.js web app with Stripe payments and calendar scheduling for yoga studios."},
			{ID: "clinic", Text: "Clinic Portal: React Native mobile app for patients with appointment booking and secure messaging."},
			{ID: "reports", Text: "Report Builder: Python Flask service generating PDF reports from PostgreSQL data with charts."},
			{ID: "scraper", Text: "Price Watch: Python web scraper with Scrapy and a daily email digest of competitor prices."},
		},
		Jobs: []Job{
			{ID: "booking-app", Text: "Build an appointment booking web app with online payments and a calendar for a salon.", Relevant: []string{"booking", "clinic"}},
			{ID: "python-backend", Text: "Python developer needed for a PostgreSQL-backed backend with a REST API and reporting.", Relevant: []string{"crm", "reports"}},
			{ID: "data-collection", Text: "Scrape product listings from several e-commerce sites and send a daily summary.", Relevant: []string{"scraper"}},
		},
	}
}
