// Package emotion содержит словарь эмоций: метка -> ключевые слова.
//
// Словарь — внешние данные конфигурации. Загружается один раз при старте
// процесса и дальше не меняется, поэтому скоринг может читать его из
// любых горутин без блокировок.
package emotion

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry — одна эмоция и её ключевые слова-синонимы.
type Entry struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Dictionary — иммутабельный упорядоченный список эмоций.
type Dictionary struct {
	entries []Entry
}

// dictionaryFile — формат YAML файла словаря.
type dictionaryFile struct {
	Emotions []Entry `yaml:"emotions"`
}

// Load читает словарь из YAML файла.
//
// Формат:
//
//	emotions:
//	  - label: 开心
//	    keywords: [开心, 高兴, 哈哈]
func Load(path string) (*Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read emotion dictionary %s: %w", path, err)
	}

	var file dictionaryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("cannot parse emotion dictionary %s: %w", path, err)
	}
	if len(file.Emotions) == 0 {
		return nil, fmt.Errorf("emotion dictionary %s contains no entries", path)
	}
	for _, e := range file.Emotions {
		if e.Label == "" {
			return nil, fmt.Errorf("emotion dictionary %s: entry without label", path)
		}
		if len(e.Keywords) == 0 {
			return nil, fmt.Errorf("emotion dictionary %s: emotion %q has no keywords", path, e.Label)
		}
	}

	return &Dictionary{entries: file.Emotions}, nil
}

// FromEntries строит словарь из готового списка. Удобно для тестов
// с синтетическими словарями.
func FromEntries(entries []Entry) *Dictionary {
	return &Dictionary{entries: entries}
}

// Default возвращает встроенный словарь из девяти базовых эмоций.
func Default() *Dictionary {
	return &Dictionary{entries: []Entry{
		{Label: "开心", Keywords: []string{"开心", "高兴", "快乐", "兴奋", "愉快", "爽", "哈哈", "嘻嘻", "嘿嘿", "舒服", "舒适", "棒", "赞", "好"}},
		{Label: "愤怒", Keywords: []string{"愤怒", "生气", "恼火", "暴躁", "怒", "火大", "抓狂", "爆炸", "气死", "讨厌", "烦", "恶心"}},
		{Label: "悲伤", Keywords: []string{"悲伤", "难过", "伤心", "沮丧", "郁闷", "失落", "哭泣", "痛苦", "哭", "眼泪", "委屈", "可怜"}},
		{Label: "撒娇", Keywords: []string{"撒娇", "可爱", "萌", "求", "要", "关注", "抱抱", "亲亲", "么么", "宝贝", "乖", "求求"}},
		{Label: "疲惫", Keywords: []string{"累", "疲惫", "困", "倦怠", "厌世", "无语", "躺", "睡", "休息", "太累了"}},
		{Label: "好吃", Keywords: []string{"吃", "好吃", "美食", "蛋糕", "香", "饿了", "想吃", "美味", "香甜", "流口水", "馋"}},
		{Label: "害羞", Keywords: []string{"害羞", "脸红", "不好意思", "羞涩", "羞羞", "害羞了", "红脸"}},
		{Label: "赞同", Keywords: []string{"支持", "赞同", "同意", "对", "没错", "棒", "好的", "是的", "确实", "点赞"}},
		{Label: "鼓励", Keywords: []string{"安慰", "鼓励", "加油", "没事", "别哭", "抱抱", "不要紧", "会好的", "坚持"}},
	}}
}

// Entries возвращает записи словаря. Срез нельзя модифицировать.
func (d *Dictionary) Entries() []Entry {
	return d.entries
}

// Len возвращает количество эмоций в словаре.
func (d *Dictionary) Len() int {
	return len(d.entries)
}
