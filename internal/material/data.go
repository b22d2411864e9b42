package material

// defaultEntries is the curated material key list, grouped by the buyer
// industry that usually sources it.
var defaultEntries = []Entry{
	// Electronics
	{"semiconductors", []string{"Taiwan", "South Korea", "China"}},
	{"pcbs", []string{"China", "Taiwan", "South Korea"}},
	{"display panels", []string{"South Korea", "China", "Taiwan"}},
	{"batteries", []string{"China", "South Korea"}},
	{"rare earth", []string{"China"}},
	{"sensors", []string{"Germany", "Japan", "South Korea"}},
	{"capacitor", []string{"Japan", "China", "South Korea"}},
	{"microcontroller", []string{"Taiwan", "South Korea"}},
	{"optical", []string{"Japan", "Germany", "Taiwan"}},

	// Manufacturing / Automotive
	{"steel", []string{"India", "China", "Germany"}},
	{"aluminum", []string{"China", "India", "Germany"}},
	{"copper", []string{"China", "India", "South Korea"}},
	{"precision parts", []string{"Germany", "India", "Taiwan"}},
	{"wiring", []string{"Vietnam", "China", "India"}},
	{"hydraulic", []string{"Germany", "India"}},
	{"motors", []string{"Germany", "India", "China"}},
	{"rubber", []string{"Malaysia", "Thailand", "Vietnam"}},
	{"fastener", []string{"China", "India", "Germany"}},
	{"plastics", []string{"China", "Germany", "South Korea"}},
	{"glass", []string{"China", "Germany", "India"}},
	{"paints", []string{"Germany", "India", "China"}},

	// Pharmaceuticals
	{"active pharmaceutical", []string{"India", "China", "Germany"}},
	{"api", []string{"India", "China", "Germany"}},
	{"excipients", []string{"India", "Germany", "China"}},
	{"chemical solvents", []string{"Germany", "China", "India"}},
	{"biologic", []string{"Germany", "USA", "India"}},
	{"reagents", []string{"Germany", "USA", "Japan"}},
	{"sterile packaging", []string{"Germany", "India", "China"}},
	{"medical glass", []string{"Germany", "India"}},
	{"drug delivery", []string{"Germany", "India", "USA"}},
	{"laboratory", []string{"Germany", "Japan", "USA"}},
	{"filtration", []string{"Germany", "Japan", "India"}},
	{"cold-chain", []string{"Germany", "South Korea", "USA"}},

	// Aerospace
	{"titanium", []string{"Japan", "Germany", "China"}},
	{"carbon fiber", []string{"Japan", "Germany", "South Korea"}},
	{"avionics", []string{"USA", "Germany", "Japan"}},
	{"thermal insulation", []string{"Germany", "Japan", "China"}},
	{"fuel system", []string{"Germany", "Japan", "USA"}},

	// Energy
	{"solar", []string{"China", "South Korea"}},
	{"turbine", []string{"Germany", "India", "China"}},
	{"cables", []string{"China", "Germany", "India"}},
	{"transformer", []string{"China", "Germany", "India"}},
	{"insulation", []string{"China", "Germany"}},
	{"pumps", []string{"Germany", "India", "China"}},

	// Construction
	{"cement", []string{"India", "China", "Vietnam"}},
	{"lumber", []string{"Vietnam", "Malaysia", "Indonesia"}},

	// Food & Beverage
	{"packaging materials", []string{"China", "Vietnam", "India"}},
	{"food-grade", []string{"Germany", "USA", "China"}},
	{"flavoring", []string{"China", "India", "Germany"}},
	{"preservatives", []string{"China", "Germany", "India"}},
	{"enzymes", []string{"Germany", "China", "Denmark"}},
	{"sweeteners", []string{"China", "India"}},
	{"fats", []string{"Malaysia", "Indonesia", "India"}},
	{"starches", []string{"China", "India", "USA"}},
	{"agricultural", []string{"India", "Vietnam", "Thailand"}},

	// Textiles
	{"cotton", []string{"India", "China", "Bangladesh"}},
	{"synthetic fibers", []string{"China", "India", "Vietnam"}},
	{"dyes", []string{"India", "China", "Germany"}},
	{"elastane", []string{"China", "South Korea"}},

	// Chemical
	{"solvents", []string{"Germany", "China", "India"}},
	{"catalysts", []string{"Germany", "Japan", "China"}},
	{"surfactants", []string{"Germany", "China", "India"}},
	{"petrochemicals", []string{"China", "India", "South Korea"}},
	{"specialty gases", []string{"Germany", "Japan", "South Korea"}},

	// Logistics
	{"lubricants", []string{"Germany", "China", "India"}},
	{"conveyor", []string{"Germany", "China", "India"}},
	{"warehouse", []string{"China", "Germany", "South Korea"}},
	{"pallets", []string{"China", "Vietnam", "India"}},
}
