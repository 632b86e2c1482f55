package nutrition

// macro ranges are [min, max]; rule-based estimates use the midpoint.
type template struct {
	Calories [2]float64
	Protein  [2]float64
	Carbs    [2]float64
	Fat      [2]float64
}

// Keys are matched by substring against the lowercased name+description,
// in this order. More specific dishes come before generic staples.
var templateOrder = []string{
	"burger", "pizza", "burrito", "steak", "salmon", "shrimp", "chicken",
	"tofu", "pasta", "wrap", "sandwich", "salad", "bowl", "soup", "rice",
}

var templates = map[string]template{
	"burger":   {Calories: [2]float64{600, 800}, Protein: [2]float64{25, 35}, Carbs: [2]float64{40, 60}, Fat: [2]float64{30, 40}},
	"pizza":    {Calories: [2]float64{700, 900}, Protein: [2]float64{25, 35}, Carbs: [2]float64{80, 100}, Fat: [2]float64{25, 35}},
	"burrito":  {Calories: [2]float64{650, 850}, Protein: [2]float64{25, 35}, Carbs: [2]float64{70, 90}, Fat: [2]float64{20, 30}},
	"steak":    {Calories: [2]float64{550, 750}, Protein: [2]float64{45, 60}, Carbs: [2]float64{5, 15}, Fat: [2]float64{30, 45}},
	"salmon":   {Calories: [2]float64{450, 600}, Protein: [2]float64{35, 45}, Carbs: [2]float64{10, 25}, Fat: [2]float64{20, 30}},
	"shrimp":   {Calories: [2]float64{300, 450}, Protein: [2]float64{25, 35}, Carbs: [2]float64{15, 30}, Fat: [2]float64{8, 15}},
	"chicken":  {Calories: [2]float64{400, 550}, Protein: [2]float64{35, 45}, Carbs: [2]float64{20, 35}, Fat: [2]float64{12, 20}},
	"tofu":     {Calories: [2]float64{300, 450}, Protein: [2]float64{18, 28}, Carbs: [2]float64{20, 35}, Fat: [2]float64{12, 20}},
	"pasta":    {Calories: [2]float64{600, 800}, Protein: [2]float64{18, 26}, Carbs: [2]float64{80, 110}, Fat: [2]float64{15, 25}},
	"wrap":     {Calories: [2]float64{450, 600}, Protein: [2]float64{20, 30}, Carbs: [2]float64{45, 60}, Fat: [2]float64{15, 25}},
	"sandwich": {Calories: [2]float64{450, 650}, Protein: [2]float64{20, 30}, Carbs: [2]float64{45, 65}, Fat: [2]float64{18, 28}},
	"salad":    {Calories: [2]float64{250, 400}, Protein: [2]float64{10, 25}, Carbs: [2]float64{15, 30}, Fat: [2]float64{12, 22}},
	"bowl":     {Calories: [2]float64{450, 650}, Protein: [2]float64{25, 35}, Carbs: [2]float64{45, 65}, Fat: [2]float64{12, 22}},
	"soup":     {Calories: [2]float64{150, 300}, Protein: [2]float64{8, 15}, Carbs: [2]float64{15, 30}, Fat: [2]float64{5, 12}},
	"rice":     {Calories: [2]float64{400, 600}, Protein: [2]float64{12, 20}, Carbs: [2]float64{70, 95}, Fat: [2]float64{8, 15}},
}

func mid(r [2]float64) float64 {
	return (r[0] + r[1]) / 2
}
