package components

import (
	"math"
	"reflect"
)

// SizingStrategy 音符块的尺寸策略
//
// 不同种类的音符通过组合不同的策略实现，而不是继承：
//   - FixedSizing: 圆形音符，尺寸在构造后不变
//   - ElongatedSizing: 连打，每帧根据参考长度拉伸宽度
type SizingStrategy interface {
	// ContentScale 返回构造时内容层的缩放
	ContentScale(isStrong bool, strongScale float64) float64

	// Resize 每帧调用，根据当前高度重算宽度/内边距
	Resize(p *CirclePieceComponent)
}

// FixedSizing 固定尺寸策略
type FixedSizing struct{}

// ContentScale 大音符的内容与整体同比例放大
func (FixedSizing) ContentScale(isStrong bool, strongScale float64) float64 {
	if isStrong {
		return strongScale
	}
	return 1
}

// Resize 固定尺寸，无需重算
func (FixedSizing) Resize(*CirclePieceComponent) {}

// LengthReference 提供外部参考长度（如判定区的滚动长度，像素）
type LengthReference interface {
	ReferenceLength() float64
}

// LengthReferenceFunc 将普通函数适配为 LengthReference
type LengthReferenceFunc func() float64

// ReferenceLength 实现 LengthReference，nil 函数返回 0
func (f LengthReferenceFunc) ReferenceLength() float64 {
	if f == nil {
		return 0
	}
	return f()
}

// isNilReference 判断 ref 是否为 nil 或包装了 nil 值（nil 指针、nil 函数）
func isNilReference(ref LengthReference) bool {
	if ref == nil {
		return true
	}
	v := reflect.ValueOf(ref)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// IsValidLength 长度倍数必须是非负有限数
func IsValidLength(length float64) bool {
	return length >= 0 && !math.IsInf(length, 0)
}

// OptionalReference 可能尚未设置的参考长度
// 零值表示未设置，此时 Value() 返回 0
type OptionalReference struct {
	ref LengthReference
}

// IsSet 是否已设置参考
func (o OptionalReference) IsSet() bool {
	return o.ref != nil
}

// Value 返回参考长度，未设置时为 0
func (o OptionalReference) Value() float64 {
	if o.ref == nil {
		return 0
	}
	return o.ref.ReferenceLength()
}

// ElongatedSizing 拉长尺寸策略（连打）
//
// 每帧：
//
//	ContentPadding.Left = ContentPadding.Right = Height / 2
//	Width = Reference × Length + Height
//
// 两端半圆的直径始终等于高度，内容层不会覆盖到圆角部分。
type ElongatedSizing struct {
	// Length 以参考长度为单位的长度倍数
	Length float64

	reference OptionalReference
}

// NewElongatedSizing 创建拉长尺寸策略，参考长度稍后由所属判定区通过 Attach 设置
// 无效长度按 0 处理，规则同 SetLength
func NewElongatedSizing(length float64) *ElongatedSizing {
	s := &ElongatedSizing{}
	s.SetLength(length)
	return s
}

// SetLength 设置长度倍数，负数、NaN 和无穷大按 0 处理
func (s *ElongatedSizing) SetLength(length float64) {
	if !IsValidLength(length) {
		length = 0
	}
	s.Length = length
}

// Attach 设置参考长度来源
// ref 为 nil（包括 nil 指针和 nil 函数）时等同于 Detach
func (s *ElongatedSizing) Attach(ref LengthReference) {
	if isNilReference(ref) {
		s.reference = OptionalReference{}
		return
	}
	s.reference = OptionalReference{ref: ref}
}

// Detach 清除参考长度来源，之后参考值按 0 计算
func (s *ElongatedSizing) Detach() {
	s.reference = OptionalReference{}
}

// HasReference 是否已设置参考长度来源
func (s *ElongatedSizing) HasReference() bool {
	return s.reference.IsSet()
}

// Reference 返回当前参考
func (s *ElongatedSizing) Reference() OptionalReference {
	return s.reference
}

// ContentScale 拉长音符的内容层不随大音符放大（整体尺寸仍然放大）
func (s *ElongatedSizing) ContentScale(bool, float64) float64 {
	return 1
}

// Resize 根据当前高度和参考长度重算内边距与宽度
func (s *ElongatedSizing) Resize(p *CirclePieceComponent) {
	h := p.Height
	p.ContentPadding = Padding{Left: h / 2, Right: h / 2}
	p.Width = s.reference.Value()*s.Length + h
}
