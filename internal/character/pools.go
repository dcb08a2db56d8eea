package character

import (
	_ "embed"
	"fmt"
	"math/rand"

	"github.com/bytedance/sonic"
)

//go:embed data/tarot_cards.json
var tarotCardsRaw []byte

//go:embed data/truth_or_dare.json
var truthOrDareRaw []byte

//go:embed data/story_starters.json
var storyStartersRaw []byte

//go:embed data/reviews.json
var reviewsRaw []byte

//go:embed data/shopping_list.json
var shoppingListRaw []byte

//go:embed data/grudge_book.json
var grudgeBookRaw []byte

//go:embed data/life_scenes.json
var lifeScenesRaw []byte

//go:embed data/fantasy_stories.json
var fantasyStoriesRaw []byte

// TarotCard 一张塔罗牌
type TarotCard struct {
	Name    string `json:"name"`
	Meaning string `json:"meaning"`
}

// Question 真心话大冒险题目，Type 为 truth 或 dare
type Question struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Review 文艺评论，Type 为 电影/书/剧/音乐
type Review struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type contentLine struct {
	Content string `json:"content"`
}

// Pools 启动时加载一次的只读内容池。
// 并发读安全：加载完成后不再修改。
type Pools struct {
	TarotCards     []TarotCard
	Questions      []Question
	StoryStarters  []string
	Reviews        []Review
	ShoppingItems  []string
	Grudges        []string
	LifeScenes     []string
	FantasyStories []string
}

func loadPools() (*Pools, error) {
	p := &Pools{}
	if err := sonic.Unmarshal(tarotCardsRaw, &p.TarotCards); err != nil {
		return nil, fmt.Errorf("failed to parse tarot cards: %w", err)
	}
	if err := sonic.Unmarshal(truthOrDareRaw, &p.Questions); err != nil {
		return nil, fmt.Errorf("failed to parse truth-or-dare questions: %w", err)
	}
	var err error
	if p.StoryStarters, err = loadLines(storyStartersRaw); err != nil {
		return nil, fmt.Errorf("failed to parse story starters: %w", err)
	}
	if err := sonic.Unmarshal(reviewsRaw, &p.Reviews); err != nil {
		return nil, fmt.Errorf("failed to parse reviews: %w", err)
	}
	if p.ShoppingItems, err = loadLines(shoppingListRaw); err != nil {
		return nil, fmt.Errorf("failed to parse shopping list: %w", err)
	}
	if p.Grudges, err = loadLines(grudgeBookRaw); err != nil {
		return nil, fmt.Errorf("failed to parse grudge book: %w", err)
	}
	if p.LifeScenes, err = loadLines(lifeScenesRaw); err != nil {
		return nil, fmt.Errorf("failed to parse life scenes: %w", err)
	}
	if p.FantasyStories, err = loadLines(fantasyStoriesRaw); err != nil {
		return nil, fmt.Errorf("failed to parse fantasy stories: %w", err)
	}
	return p, nil
}

func loadLines(raw []byte) ([]string, error) {
	var items []contentLine
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Content)
	}
	return lines, nil
}

// DrawTarot 随机抽 n 张牌。有放回抽取：牌池远大于抽取数，重复概率可接受。
func (p *Pools) DrawTarot(n int) []TarotCard {
	cards := make([]TarotCard, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, p.TarotCards[rand.Intn(len(p.TarotCards))])
	}
	return cards
}

// RandomQuestion 按类型抽一道题；qtype 为空或无匹配时在全池内随机。
func (p *Pools) RandomQuestion(qtype string) Question {
	if qtype != "" {
		matched := make([]Question, 0, len(p.Questions))
		for _, q := range p.Questions {
			if q.Type == qtype {
				matched = append(matched, q)
			}
		}
		if len(matched) > 0 {
			return matched[rand.Intn(len(matched))]
		}
	}
	return p.Questions[rand.Intn(len(p.Questions))]
}

// RandomReview 按类别抽一条评论；category 为空或无匹配时在全池内随机。
func (p *Pools) RandomReview(category string) Review {
	if category != "" {
		matched := make([]Review, 0, len(p.Reviews))
		for _, r := range p.Reviews {
			if r.Type == category {
				matched = append(matched, r)
			}
		}
		if len(matched) > 0 {
			return matched[rand.Intn(len(matched))]
		}
	}
	return p.Reviews[rand.Intn(len(p.Reviews))]
}

// RandomStoryStarter 随机取一个故事开头
func (p *Pools) RandomStoryStarter() string {
	return p.StoryStarters[rand.Intn(len(p.StoryStarters))]
}

// RandomShoppingItem 随机取一条购物清单项目
func (p *Pools) RandomShoppingItem() string {
	return p.ShoppingItems[rand.Intn(len(p.ShoppingItems))]
}

// RandomGrudge 随机取一条记仇事件
func (p *Pools) RandomGrudge() string {
	return p.Grudges[rand.Intn(len(p.Grudges))]
}

// RandomLifeScene 随机取一条生活小事
func (p *Pools) RandomLifeScene() string {
	return p.LifeScenes[rand.Intn(len(p.LifeScenes))]
}

// RandomFantasyStory 随机取一条幻想故事
func (p *Pools) RandomFantasyStory() string {
	return p.FantasyStories[rand.Intn(len(p.FantasyStories))]
}
