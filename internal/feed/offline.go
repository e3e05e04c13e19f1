package feed

import "github.com/matheuskafuri/newsanchor/internal/cache"

// offlineNews keeps the agent speaking when every upstream is unreachable.
var offlineNews = map[string][]cache.Article{
	"headlines": {
		{Title: "India AI Summit Kicks Off with Record Attendance", Description: "The annual India AI Summit has begun with over 10,000 attendees exploring the latest in artificial intelligence and machine learning.", Source: "Tech Today India", Published: "2 hours ago"},
		{Title: "New AI PC Chips Optimized for Local Language Models", Description: "The latest laptop processors run large language models entirely on device without a cloud dependency.", Source: "Hardware Weekly", Published: "4 hours ago"},
		{Title: "Renewable Energy Investments Hit All-Time High", Description: "Global investments in solar and wind energy have reached unprecedented levels as countries accelerate the green transition.", Source: "Climate Monitor", Published: "6 hours ago"},
	},
	"technology": {
		{Title: "Voice AI Assistants Gain Traction in Enterprise Applications", Description: "Companies are increasingly deploying voice-based AI agents for customer service and internal operations.", Source: "Enterprise Tech", Published: "1 hour ago"},
		{Title: "Open Source LLMs Rival Commercial Models in Latest Benchmarks", Description: "New open-source language models are achieving performance comparable to proprietary offerings.", Source: "AI Research Daily", Published: "3 hours ago"},
		{Title: "Edge Computing Enables Real-Time AI Processing", Description: "Local AI processing on edge devices reduces latency and improves privacy for sensitive applications.", Source: "Tech Insights", Published: "5 hours ago"},
	},
	"business": {
		{Title: "Markets Rally on Strong Economic Data", Description: "Stock markets surged as employment figures exceeded expectations and inflation showed signs of cooling.", Source: "Financial Express", Published: "30 minutes ago"},
		{Title: "AI Startups Attract Record Venture Capital", Description: "Investment in artificial intelligence companies has doubled compared to the previous year.", Source: "Startup Weekly", Published: "2 hours ago"},
		{Title: "NIFTY Crosses New Milestone Amid Tech Rally", Description: "The benchmark index reached new highs driven by strong performance in technology and banking sectors.", Source: "Market Watch India", Published: "4 hours ago"},
	},
	"sports": {
		{Title: "India Clinches Thrilling Victory in Test Match", Description: "A spectacular final day performance sealed India's win in a closely contested test match.", Source: "Sports Today", Published: "1 hour ago"},
		{Title: "IPL Auction Sets New Records for Player Valuations", Description: "This year's IPL auction saw unprecedented bidding wars for top cricket talent.", Source: "Cricket Weekly", Published: "3 hours ago"},
		{Title: "Olympic Preparations in Full Swing", Description: "Athletes across the country are intensifying training ahead of the upcoming Olympic games.", Source: "Sports Tribune", Published: "5 hours ago"},
	},
	"entertainment": {
		{Title: "Bollywood Film Breaks Box Office Records", Description: "The latest blockbuster has become the highest-grossing Indian film in international markets.", Source: "Film Fare", Published: "2 hours ago"},
		{Title: "Music Streaming Hits New Peak in India", Description: "Digital music consumption has reached record levels with millions of new subscribers.", Source: "Entertainment Daily", Published: "4 hours ago"},
		{Title: "International Film Festival Announces Lineup", Description: "The festival will showcase diverse films from over 50 countries.", Source: "Cinema Today", Published: "6 hours ago"},
	},
	"science": {
		{Title: "ISRO Announces Ambitious Space Mission", Description: "India's space agency reveals plans for advanced deep space exploration missions.", Source: "Science India", Published: "1 hour ago"},
		{Title: "Breakthrough in Quantum Computing Announced", Description: "Researchers achieve a significant milestone in quantum error correction.", Source: "Tech Science Journal", Published: "3 hours ago"},
		{Title: "Climate Scientists Report Positive Developments", Description: "New data suggests some environmental protection measures are showing results.", Source: "Environment Today", Published: "5 hours ago"},
	},
	"world": {
		{Title: "Global Summit Addresses Climate Action", Description: "World leaders convene to discuss accelerated measures for environmental protection.", Source: "World News Network", Published: "2 hours ago"},
		{Title: "International Trade Agreement Signed", Description: "Major economies reach consensus on a new trade framework promoting digital commerce.", Source: "Global Tribune", Published: "4 hours ago"},
		{Title: "Technology Driving Economic Growth Worldwide", Description: "AI and automation are identified as key drivers of economic expansion across regions.", Source: "International Herald", Published: "6 hours ago"},
	},
}

// Offline returns the built-in articles for category, or the default
// category's when category is unknown.
func Offline(category string) []cache.Article {
	articles, ok := offlineNews[NormalizeCategory(category)]
	if !ok {
		articles = offlineNews[DefaultCategory]
	}
	out := make([]cache.Article, len(articles))
	copy(out, articles)
	return capArticles(out)
}
