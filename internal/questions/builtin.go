package questions

import "ecoquiz-duel/internal/models"

var builtin = []models.Question{
	{
		ID:            1,
		Text:          "What type of waste is a mobile phone?",
		Options:       []string{"Biodegradable", "Non-biodegradable", "Compostable", "Recyclable"},
		CorrectAnswer: 1,
		Explanation:   "Mobile phones contain electronic components and metals that don't break down naturally, making them non-biodegradable waste.",
	},
	{
		ID:            2,
		Text:          "Which of these is a renewable energy source?",
		Options:       []string{"Coal", "Solar power", "Natural gas", "Oil"},
		CorrectAnswer: 1,
		Explanation:   "Solar power comes from the sun and is renewable, unlike fossil fuels like coal, natural gas, and oil.",
	},
	{
		ID:            3,
		Text:          "What is the main cause of global warming?",
		Options:       []string{"Deforestation", "Greenhouse gases", "Ocean pollution", "Landfills"},
		CorrectAnswer: 1,
		Explanation:   "Greenhouse gases like carbon dioxide trap heat in the atmosphere, causing global warming.",
	},
	{
		ID:            4,
		Text:          "Which animal is most affected by plastic pollution in oceans?",
		Options:       []string{"Sharks", "Sea turtles", "Whales", "All of the above"},
		CorrectAnswer: 3,
		Explanation:   "All marine animals are affected by plastic pollution, but sea turtles are particularly vulnerable as they often mistake plastic bags for jellyfish.",
	},
	{
		ID:            5,
		Text:          "What is the best way to reduce your carbon footprint?",
		Options:       []string{"Drive everywhere", "Use public transport", "Fly frequently", "Leave lights on"},
		CorrectAnswer: 1,
		Explanation:   "Using public transport, walking, or cycling reduces carbon emissions compared to driving alone.",
	},
	{
		ID:            6,
		Text:          "Which material takes the longest to decompose?",
		Options:       []string{"Banana peel", "Plastic bottle", "Paper", "Apple core"},
		CorrectAnswer: 1,
		Explanation:   "Plastic bottles can take up to 450 years to decompose, much longer than organic materials.",
	},
	{
		ID:            7,
		Text:          "What is the primary purpose of recycling?",
		Options:       []string{"To make money", "To reduce waste", "To create jobs", "All of the above"},
		CorrectAnswer: 3,
		Explanation:   "Recycling serves multiple purposes: it reduces waste, creates jobs, and can generate revenue.",
	},
	{
		ID:            8,
		Text:          "Which of these is NOT a greenhouse gas?",
		Options:       []string{"Carbon dioxide", "Methane", "Oxygen", "Nitrous oxide"},
		CorrectAnswer: 2,
		Explanation:   "Oxygen is not a greenhouse gas. Carbon dioxide, methane, and nitrous oxide are all greenhouse gases.",
	},
	{
		ID:            9,
		Text:          "What percentage of Earth's water is fresh water?",
		Options:       []string{"3%", "25%", "50%", "75%"},
		CorrectAnswer: 0,
		Explanation:   "Only about 3% of Earth's water is fresh water, and most of that is frozen in glaciers and ice caps.",
	},
	{
		ID:            10,
		Text:          "Which activity uses the most water in a typical household?",
		Options:       []string{"Drinking", "Showering", "Washing clothes", "Watering plants"},
		CorrectAnswer: 2,
		Explanation:   "Washing clothes typically uses the most water in a household, especially with older washing machines.",
	},
	{
		ID:            11,
		Text:          "What is the main benefit of planting trees?",
		Options:       []string{"They look nice", "They absorb CO2", "They provide shade", "All of the above"},
		CorrectAnswer: 3,
		Explanation:   "Trees provide multiple benefits including absorbing CO2, providing shade, and improving aesthetics.",
	},
	{
		ID:            12,
		Text:          "Which of these is a sustainable practice?",
		Options:       []string{"Using single-use plastics", "Composting food waste", "Burning trash", "Leaving taps running"},
		CorrectAnswer: 1,
		Explanation:   "Composting food waste is a sustainable practice that reduces landfill waste and creates nutrient-rich soil.",
	},
	{
		ID:            13,
		Text:          "What is the biggest source of air pollution in cities?",
		Options:       []string{"Factories", "Cars", "Power plants", "Construction"},
		CorrectAnswer: 1,
		Explanation:   "Vehicle emissions are typically the biggest source of air pollution in urban areas.",
	},
	{
		ID:            14,
		Text:          "Which of these materials is most recyclable?",
		Options:       []string{"Glass", "Plastic bags", "Styrofoam", "Mixed materials"},
		CorrectAnswer: 0,
		Explanation:   "Glass is 100% recyclable and can be recycled indefinitely without losing quality.",
	},
	{
		ID:            15,
		Text:          "What is the main cause of ocean acidification?",
		Options:       []string{"Plastic waste", "Oil spills", "Excess CO2", "Sewage"},
		CorrectAnswer: 2,
		Explanation:   "Ocean acidification is primarily caused by excess CO2 dissolving in seawater, making it more acidic.",
	},
	{
		ID:            16,
		Text:          "Which gas do plants release during photosynthesis?",
		Options:       []string{"Carbon dioxide", "Oxygen", "Methane", "Nitrogen"},
		CorrectAnswer: 1,
		Explanation:   "Plants take in carbon dioxide and release oxygen as they turn sunlight into food.",
	},
	{
		ID:            17,
		Text:          "Where should used batteries go?",
		Options:       []string{"Household bin", "Compost heap", "Battery collection point", "Down the drain"},
		CorrectAnswer: 2,
		Explanation:   "Batteries contain heavy metals and must be taken to a collection point so they can be recycled safely.",
	},
	{
		ID:            18,
		Text:          "Which light bulb uses the least energy?",
		Options:       []string{"Incandescent", "Halogen", "LED", "They all use the same"},
		CorrectAnswer: 2,
		Explanation:   "LED bulbs use up to 80% less energy than incandescent bulbs and last much longer.",
	},
	{
		ID:            19,
		Text:          "What does the term 'biodiversity' describe?",
		Options:       []string{"The variety of life in an area", "The amount of rainfall", "The age of a forest", "The size of an ocean"},
		CorrectAnswer: 0,
		Explanation:   "Biodiversity is the variety of plants, animals and other living things found in a place.",
	},
	{
		ID:            20,
		Text:          "Which habit saves the most water when brushing your teeth?",
		Options:       []string{"Using warm water", "Turning off the tap", "Brushing faster", "Using a bigger cup"},
		CorrectAnswer: 1,
		Explanation:   "Turning off the tap while brushing can save several litres of water every time.",
	},
}
