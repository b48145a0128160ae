package portfolio

// Seed provides the default portfolio shipped with the site.
func Seed() Document {
	return Document{
		Name:     "Soma Arjun Yadav",
		Title:    "AI & ML Engineer",
		Bio:      "Passionate AI/ML engineer with expertise in developing intelligent solutions and interactive data visualizations. I specialize in creating cutting-edge applications that bridge the gap between complex algorithms and user-friendly interfaces.",
		Location: "San Francisco, CA",
		Email:    "soma.arjun@example.com",
		Phone:    "+1 (555) 123-4567",
		Website:  "https://somaarjun.dev",
		LinkedIn: "https://linkedin.com/in/somaarjun",
		GitHub:   "https://github.com/somaarjun",
		Projects: []Project{
			{
				ID:           "1",
				Title:        "ML-Powered Analytics Dashboard",
				Description:  "Interactive dashboard with real-time machine learning predictions and beautiful data visualizations.",
				Category:     "AI/ML",
				Technologies: []string{"Python", "TensorFlow", "React", "D3.js"},
				Image:        "/api/placeholder-image/project1",
				GitHub:       "https://github.com/somaarjun/ml-dashboard",
				Live:         "https://ml-dashboard-demo.vercel.app",
				Featured:     true,
				Status:       "completed",
			},
			{
				ID:           "2",
				Title:        "Smart Data Visualization Suite",
				Description:  "Advanced charting library with AI-powered insights and automated pattern recognition.",
				Category:     "Data Visualization",
				Technologies: []string{"D3.js", "TypeScript", "WebGL", "Python"},
				Image:        "/api/placeholder-image/project2",
				GitHub:       "https://github.com/somaarjun/smart-viz",
				Live:         "https://smart-viz-demo.vercel.app",
				Featured:     true,
				Status:       "completed",
			},
			{
				ID:           "3",
				Title:        "AI-Powered Mobile App",
				Description:  "Cross-platform mobile application with computer vision and natural language processing capabilities.",
				Category:     "App Development",
				Technologies: []string{"React Native", "TensorFlow Lite", "Firebase", "Node.js"},
				Image:        "/api/placeholder-image/project3",
				GitHub:       "https://github.com/somaarjun/ai-mobile-app",
				Live:         "https://ai-mobile-app.vercel.app",
				Featured:     false,
				Status:       "in-progress",
			},
		},
		Skills: []Skill{
			{Name: "Python", Level: 95, Icon: "🐍", Category: "Programming"},
			{Name: "Machine Learning", Level: 92, Icon: "🤖", Category: "AI/ML"},
			{Name: "TensorFlow", Level: 88, Icon: "🧠", Category: "AI/ML"},
			{Name: "React", Level: 90, Icon: "⚛️", Category: "Frontend"},
			{Name: "TypeScript", Level: 85, Icon: "📘", Category: "Programming"},
			{Name: "Node.js", Level: 82, Icon: "🟢", Category: "Backend"},
			{Name: "Data Visualization", Level: 87, Icon: "📊", Category: "Data Science"},
			{Name: "Deep Learning", Level: 85, Icon: "🔬", Category: "AI/ML"},
			{Name: "AWS", Level: 75, Icon: "☁️", Category: "Cloud"},
			{Name: "Docker", Level: 78, Icon: "🐳", Category: "DevOps"},
			{Name: "PostgreSQL", Level: 82, Icon: "🐘", Category: "Database"},
		},
		Experience: Experience{
			Title:       "AI & ML Engineer",
			Description: "Specialized in developing machine learning solutions, interactive data visualizations, and intelligent applications. Expert in Python, TensorFlow, and modern web technologies with a focus on AI-driven user experiences.",
			Years:       4,
			Timeline: []TimelineItem{
				{
					ID:          "1",
					Position:    "Senior AI/ML Engineer",
					Company:     "TechCorp Innovation Labs",
					Period:      "2022 - Present",
					Duration:    "2+ years",
					Type:        "full-time",
					Description: "Leading AI initiatives and developing cutting-edge machine learning solutions for enterprise clients.",
					Achievements: []string{
						"Built and deployed 5+ ML models improving client efficiency by 40%",
						"Led a team of 4 engineers on computer vision projects",
						"Reduced model inference time by 60% through optimization",
						"Implemented MLOps pipelines serving 1M+ daily predictions",
					},
					Technologies: []string{"Python", "TensorFlow", "Kubernetes", "AWS", "Docker"},
				},
				{
					ID:          "2",
					Position:    "AI/ML Developer",
					Company:     "DataViz Solutions",
					Period:      "2021 - 2022",
					Duration:    "1 year",
					Type:        "full-time",
					Description: "Specialized in data visualization and analytics platforms with AI-powered insights.",
					Achievements: []string{
						"Created interactive dashboards processing 10TB+ data daily",
						"Developed real-time anomaly detection systems",
						"Improved data processing speed by 3x using optimized algorithms",
						"Built custom D3.js visualizations for complex datasets",
					},
					Technologies: []string{"Python", "D3.js", "React", "PostgreSQL", "Apache Kafka"},
				},
				{
					ID:          "3",
					Position:    "Junior Developer",
					Company:     "Startup Incubator",
					Period:      "2020 - 2021",
					Duration:    "1 year",
					Type:        "full-time",
					Description: "Full-stack development with focus on mobile applications and user experience.",
					Achievements: []string{
						"Developed 3 mobile apps with 50K+ downloads",
						"Implemented responsive designs for 15+ client projects",
						"Collaborated with UI/UX designers on user research",
						"Optimized app performance reducing load times by 50%",
					},
					Technologies: []string{"React Native", "Node.js", "Firebase", "MongoDB"},
				},
			},
		},
		Certificates: []Certificate{
			{Name: "AWS Solutions Architect", Issuer: "Amazon Web Services", Icon: "fab fa-aws", Date: "2023"},
			{Name: "Meta React Developer", Issuer: "Meta (Facebook)", Icon: "fab fa-react", Date: "2022"},
		},
	}
}
