// Package model 包含了应用的数据模型定义。
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue 将任意结构序列化为 JSON 列的值。
func jsonValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// jsonScan 从数据库读出的原始值反序列化到 dst。
func jsonScan(dst interface{}, value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSON column: %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// JSONMap 是一个可直接映射到 JSON 列的通用字典。
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return jsonValue(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	return jsonScan(m, value)
}

// StringList 是一个可直接映射到 JSON 列的字符串数组。
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

func (l *StringList) Scan(value interface{}) error {
	return jsonScan(l, value)
}
